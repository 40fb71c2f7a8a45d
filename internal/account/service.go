// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

/*
Package account provides administration of existing identities.

It exposes read access to the user directory and the capability-flag editing
operation. Everything here requires an authenticated caller; identity
creation and credential changes belong to the auth package.
*/
package account

import (
	"context"
	"log/slog"

	"github.com/avelov/remark/internal/auth"
)

// # Service Layer

// PermissionsPatch is a partial update of an identity's capability flags.
// Nil fields leave the current value untouched.
type PermissionsPatch struct {
	Read   *bool `json:"read"`
	Write  *bool `json:"write"`
	Delete *bool `json:"delete"`
}

// Service orchestrates directory and permission administration.
type Service struct {
	users  auth.UserRepository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(users auth.UserRepository, logger *slog.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// # Directory Operations

/*
List retrieves a page of the user directory plus the total account count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*auth.User: Page of accounts, newest first
  - int: Total account count
  - error: Storage or execution errors
*/
func (service *Service) List(context context.Context, limit, offset int) ([]*auth.User, int, error) {
	return service.users.List(context, limit, offset)
}

/*
Get retrieves a single account by ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The account
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Get(context context.Context, userID string) (*auth.User, error) {
	return service.users.FindByID(context, userID)
}

/*
UpdatePermissions applies a partial capability patch to an account.

Description: Only the flags present in the patch change; absent flags keep
their current values. The full replacement set is written back atomically.

Parameters:
  - context: context.Context
  - userID: string
  - patch: PermissionsPatch

Returns:
  - *auth.User: The account with its updated flags
  - error: apperr.NotFound or update failures
*/
func (service *Service) UpdatePermissions(context context.Context, userID string, patch PermissionsPatch) (*auth.User, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	updated := user.Permissions
	if patch.Read != nil {
		updated.Read = *patch.Read
	}
	if patch.Write != nil {
		updated.Write = *patch.Write
	}
	if patch.Delete != nil {
		updated.Delete = *patch.Delete
	}

	if err := service.users.UpdatePermissions(context, userID, updated); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "permissions_updated",
		slog.String("user_id", userID),
		slog.Bool("read", updated.Read),
		slog.Bool("write", updated.Write),
		slog.Bool("delete", updated.Delete),
	)

	user.Permissions = updated
	return user, nil
}
