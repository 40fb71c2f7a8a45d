// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelov/remark/internal/platform/sec"
)

/*
TestHasher verifies the hash/verify pair and that the hash never equals the
plain text.
*/
func TestHasher(t *testing.T) {
	hasher := sec.NewHasher(4) // MinCost keeps the test fast

	hash, err := hasher.Hash("hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, hasher.Verify("hunter22", hash))
	assert.False(t, hasher.Verify("hunter23", hash))
	assert.False(t, hasher.Verify("hunter22", "not-a-bcrypt-hash"))
}

/*
TestNewHasher_CostFallback verifies out-of-range costs fall back to a sane default.
*/
func TestNewHasher_CostFallback(t *testing.T) {
	hasher := sec.NewHasher(-1)

	hash, err := hasher.Hash("pw")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("pw", hash))
}

/*
TestGenerateSecureToken verifies entropy length and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 random bytes hex-encoded.
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken verifies the digest is deterministic and distinct per input.
*/
func TestHashToken(t *testing.T) {
	assert.Equal(t, sec.HashToken("abc"), sec.HashToken("abc"))
	assert.NotEqual(t, sec.HashToken("abc"), sec.HashToken("abd"))
	assert.Len(t, sec.HashToken("abc"), 64)
}
