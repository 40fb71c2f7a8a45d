// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelov/remark/internal/platform/ctxutil"
)

/*
TestRequestID verifies storage and retrieval of the correlation ID.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()

	// Empty context yields an empty ID, never a panic.
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

/*
TestLogger verifies the logger fallback behavior.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()

	// Without an attached logger, the global default is returned.
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx = ctxutil.WithLogger(ctx, custom)
	assert.Same(t, custom, ctxutil.GetLogger(ctx))
}
