// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package account_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelov/remark/internal/account"
	"github.com/avelov/remark/internal/auth"
	"github.com/avelov/remark/internal/platform/apperr"
	"github.com/avelov/remark/pkg/uuid"
)

func boolPointer(value bool) *bool { return &value }

func newTestService(t *testing.T, seed int) (*account.Service, *auth.MemoryUserRepository) {
	t.Helper()

	users := auth.NewMemoryUserRepository()
	base := time.Now().Add(-time.Hour)

	for index := 0; index < seed; index++ {
		err := users.Create(context.Background(), &auth.User{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("User %d", index),
			Email:       fmt.Sprintf("user%d@example.com", index),
			Permissions: auth.DefaultPermissions(),
			CreatedAt:   base.Add(time.Duration(index) * time.Minute),
		})
		require.NoError(t, err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(users, logger), users
}

/*
TestService_List covers pagination over the directory.
*/
func TestService_List(t *testing.T) {
	service, _ := newTestService(t, 5)

	firstPage, total, err := service.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, firstPage, 2)

	// Newest account first.
	assert.Equal(t, "User 4", firstPage[0].Name)

	lastPage, _, err := service.List(context.Background(), 2, 4)
	require.NoError(t, err)
	require.Len(t, lastPage, 1)
	assert.Equal(t, "User 0", lastPage[0].Name)

	beyond, _, err := service.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

/*
TestService_Get covers lookup and the missing-account error.
*/
func TestService_Get(t *testing.T) {
	service, _ := newTestService(t, 1)

	listed, _, err := service.List(context.Background(), 1, 0)
	require.NoError(t, err)

	found, err := service.Get(context.Background(), listed[0].ID)
	require.NoError(t, err)
	assert.Equal(t, listed[0].Email, found.Email)

	_, err = service.Get(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

/*
TestService_UpdatePermissions verifies partial patches leave absent flags
untouched.
*/
func TestService_UpdatePermissions(t *testing.T) {
	tests := []struct {
		name  string
		patch account.PermissionsPatch
		want  auth.Permissions
	}{
		{
			name:  "grant_write_only",
			patch: account.PermissionsPatch{Write: boolPointer(true)},
			want:  auth.Permissions{Read: true, Write: true},
		},
		{
			name:  "revoke_read",
			patch: account.PermissionsPatch{Read: boolPointer(false)},
			want:  auth.Permissions{},
		},
		{
			name: "grant_all",
			patch: account.PermissionsPatch{
				Read:   boolPointer(true),
				Write:  boolPointer(true),
				Delete: boolPointer(true),
			},
			want: auth.Permissions{Read: true, Write: true, Delete: true},
		},
		{
			name:  "empty_patch",
			patch: account.PermissionsPatch{},
			want:  auth.Permissions{Read: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, users := newTestService(t, 1)

			listed, _, err := service.List(context.Background(), 1, 0)
			require.NoError(t, err)
			userID := listed[0].ID

			updated, err := service.UpdatePermissions(context.Background(), userID, tt.patch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, updated.Permissions)

			// Persisted, not just echoed.
			stored, err := users.FindByID(context.Background(), userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Permissions)
		})
	}

	t.Run("unknown_user", func(t *testing.T) {
		service, _ := newTestService(t, 0)

		_, err := service.UpdatePermissions(context.Background(), "no-such-id", account.PermissionsPatch{})
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})
}
