// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelov/remark/internal/platform/sec"
)

const testIssuer = "remark.test"

func newCodec() *sec.TokenService {
	return sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", testIssuer)
}

/*
TestTokenService_RoundTrip verifies that an issued token resolves back to the
same subject for both token types.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	codec := newCodec()

	for _, tokenType := range []sec.TokenType{sec.TokenTypeAccess, sec.TokenTypeRefresh} {
		t.Run(string(tokenType), func(t *testing.T) {
			token, err := codec.Issue("user-42", tokenType, time.Minute)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			subject, err := codec.Verify(token, tokenType)
			require.NoError(t, err)
			assert.Equal(t, "user-42", subject)
		})
	}
}

/*
TestTokenService_Expired verifies that a token past its embedded expiry fails
with the dedicated expiry error so callers can prompt a refresh.
*/
func TestTokenService_Expired(t *testing.T) {
	codec := newCodec()

	token, err := codec.Issue("user-42", sec.TokenTypeAccess, -1*time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(token, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Malformed verifies unparseable strings are rejected.
*/
func TestTokenService_Malformed(t *testing.T) {
	codec := newCodec()

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(raw, sec.TokenTypeAccess)
		assert.ErrorIs(t, err, sec.ErrTokenMalformed, "input %q", raw)
	}
}

/*
TestTokenService_SignatureInvalid verifies that any bit change in secret or
payload invalidates the signature.
*/
func TestTokenService_SignatureInvalid(t *testing.T) {
	codec := newCodec()
	other := sec.NewTokenService("completely", "different-secrets", testIssuer)

	token, err := codec.Issue("user-42", sec.TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = other.Verify(token, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrSignatureInvalid)
}

/*
TestTokenService_TypeMismatch verifies the embedded type tag blocks an access
token from being replayed where a refresh token is required and vice versa.
*/
func TestTokenService_TypeMismatch(t *testing.T) {
	// Same secret for both types isolates the type-tag check from the
	// independent-secret check.
	codec := sec.NewTokenService("shared-secret", "shared-secret", testIssuer)

	access, err := codec.Issue("user-42", sec.TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	refresh, err := codec.Issue("user-42", sec.TokenTypeRefresh, time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(access, sec.TokenTypeRefresh)
	assert.ErrorIs(t, err, sec.ErrTokenTypeMismatch)

	_, err = codec.Verify(refresh, sec.TokenTypeAccess)
	assert.ErrorIs(t, err, sec.ErrTokenTypeMismatch)
}

/*
TestTokenService_CrossSecretIsolation verifies that with production-style
distinct secrets, a token of one type never verifies as the other.
*/
func TestTokenService_CrossSecretIsolation(t *testing.T) {
	codec := newCodec()

	access, err := codec.Issue("user-42", sec.TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(access, sec.TokenTypeRefresh)
	assert.Error(t, err)
}
