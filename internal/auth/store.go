// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// # Store Failures

var (
	// ErrRefreshTokenUnknown is returned by [SessionRepository.Rotate] when the
	// presented token hash is not in the subject's active set — whether it was
	// rotated, revoked, aged out, or fabricated is deliberately
	// indistinguishable to callers.
	ErrRefreshTokenUnknown = errors.New("auth: refresh token not in active session set")

	// ErrResetTokenNotFound is returned by [ResetTokenRepository.Get] when the
	// token is absent or past its expiry.
	ErrResetTokenNotFound = errors.New("auth: reset token not found or expired")
)

// # User Data Access

// UserRepository defines the data access contract for identity records.
type UserRepository interface {

	/*
		FindByID returns the identity with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the identity with the given email (stored lowercase).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new identity. The storage layer enforces
		email uniqueness.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Uniqueness violations or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		List returns a page of identities plus the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*User: Page of identities
		  - int: Total identity count
		  - error: Retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*User, int, error)

	/*
		UpdatePassword replaces only the identity's credential hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdatePermissions replaces the identity's capability flags.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - permissions: Permissions

		Returns:
		  - error: Persistence failures
	*/
	UpdatePermissions(context context.Context, userID string, permissions Permissions) error

	/*
		Delete removes the identity record.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}

// # Session Data Access

// SessionRepository tracks the active refresh-token set per identity.
//
// Tokens are stored as SHA-256 hashes, never verbatim. Every mutation is a
// read-modify-write against a single identity's set; implementations must
// guarantee that two concurrent rotations of the same token hash cannot both
// succeed.
type SessionRepository interface {

	/*
		Add inserts a refresh-token hash into the identity's active set.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	Add(context context.Context, userID, tokenHash string) error

	/*
		Rotate atomically removes oldHash and inserts newHash in a single
		logical transaction. A failure partway must never leave both hashes
		absent (session lockout) nor both present (replay window).

		Parameters:
		  - context: context.Context
		  - userID: string
		  - oldHash: string
		  - newHash: string

		Returns:
		  - error: ErrRefreshTokenUnknown when oldHash is not in the active
		    set (or has aged past [RefreshTokenRetention]); persistence failures
	*/
	Rotate(context context.Context, userID, oldHash, newHash string) error

	/*
		Revoke removes one refresh-token hash. Removing an absent hash is not
		an error (idempotent).

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, userID, tokenHash string) error

	/*
		RevokeAll clears the identity's entire active set (logout-all-devices).

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, userID string) error

	/*
		DeleteExpired physically removes entries older than the retention window.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}

// # Volatile Data Access

// ResetTokenRepository stores pending password-reset tokens.
//
// At most one token is outstanding per identity: Set replaces any prior
// token for the same user.
type ResetTokenRepository interface {

	/*
		Set stores a reset token for userID with an absolute expiry of now+ttl,
		invalidating any previously outstanding token for that identity.

		Parameters:
		  - context: context.Context
		  - token: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a non-expired reset token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: UserID
		  - error: ErrResetTokenNotFound or retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a reset token after successful redemption.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
