// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelov/remark/internal/auth"
)

// okHandler records whether the gate let the request through.
func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*called = true
		writer.WriteHeader(http.StatusOK)
	})
}

func performGated(t *testing.T, handler http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestGate_Require covers the authentication gate: missing, malformed, expired,
and valid bearer tokens.
*/
func TestGate_Require(t *testing.T) {
	harness := newTestHarness(15*time.Minute, 7*24*time.Hour)
	session := signupTestUser(t, harness)
	gate := auth.NewGate(harness.service)

	t.Run("missing_token", func(t *testing.T) {
		var called bool
		recorder := performGated(t, gate.Require(okHandler(&called)), "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, called)
	})

	t.Run("garbage_token", func(t *testing.T) {
		var called bool
		recorder := performGated(t, gate.Require(okHandler(&called)), "garbage")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.False(t, called)
	})

	t.Run("expired_token", func(t *testing.T) {
		expiring := newTestHarness(-time.Minute, 7*24*time.Hour)
		expiredSession := signupTestUser(t, expiring)
		expiredGate := auth.NewGate(expiring.service)

		var called bool
		recorder := performGated(t, expiredGate.Require(okHandler(&called)), expiredSession.Tokens.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, called)
	})

	t.Run("valid_token", func(t *testing.T) {
		var called bool
		recorder := performGated(t, gate.Require(okHandler(&called)), session.Tokens.AccessToken)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, called)
	})
}

/*
TestGate_RequirePermission checks the capability gate reflects permission
edits immediately, without re-issuing tokens.
*/
func TestGate_RequirePermission(t *testing.T) {
	harness := newTestHarness(15*time.Minute, 7*24*time.Hour)
	session := signupTestUser(t, harness)
	gate := auth.NewGate(harness.service)

	protected := gate.Require(gate.RequirePermission(auth.CapabilityWrite)(okHandler(new(bool))))

	// Default capabilities lack write.
	recorder := performGated(t, protected, session.Tokens.AccessToken)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// Grant write; the very same token now passes.
	err := harness.users.UpdatePermissions(context.Background(), session.User.ID, auth.Permissions{
		Read:  true,
		Write: true,
	})
	require.NoError(t, err)

	recorder = performGated(t, protected, session.Tokens.AccessToken)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestGate_ContextRoundTrip verifies identity injection and retrieval helpers.
*/
func TestGate_ContextRoundTrip(t *testing.T) {
	user := &auth.User{ID: "user-1", Email: "ada@example.com"}

	ctx := auth.WithUser(context.Background(), user)
	assert.Equal(t, user, auth.FromContext(ctx))
	assert.Nil(t, auth.FromContext(context.Background()))
}
