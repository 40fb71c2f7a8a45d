// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelov/remark/internal/platform/apperr"
)

// pgUniqueViolation is the SQLSTATE raised by a unique-constraint breach.
const pgUniqueViolation = "23505"

// # User Repository

// PostgresUserRepository implements the [UserRepository] interface using pgx.
//
// # Err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Initializes timestamps if not provided and maps the unique-email
constraint breach to a client-facing validation error.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Duplicate email, constraint violations, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, name, email, passwordhash, canread, canwrite, candelete, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Permissions.Read,
		user.Permissions.Write,
		user.Permissions.Delete,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == pgUniqueViolation {
			return apperr.ValidationError("User already exists with this email")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, name, email, passwordhash, canread, canwrite, candelete, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(context, query, id)
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Emails are stored lowercased; callers must normalize before lookup.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, name, email, passwordhash, canread, canwrite, candelete, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(context, query, email)
}

/*
List retrieves a page of user records plus the total account count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*User: Page of account entities, newest first
  - int: Total number of accounts
  - error: Query or scan failures
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, int, error) {
	const countQuery = "SELECT COUNT(*) FROM users.account"

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	const query = `
		SELECT id, name, email, passwordhash, canread, canwrite, candelete, createdat, updatedat
		FROM users.account
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	for rows.Next() {
		user := &User{}
		if err := scanUser(rows, user); err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_rows_failed: %w", err)
	}

	return users, total, nil
}

/*
UpdatePassword replaces the stored credential hash for an account.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = "UPDATE users.account SET passwordhash = $2, updatedat = $3 WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdatePermissions replaces the capability flags for an account.

Parameters:
  - context: context.Context
  - userID: string
  - permissions: Permissions (full replacement set)

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *PostgresUserRepository) UpdatePermissions(context context.Context, userID string, permissions Permissions) error {
	const query = `
		UPDATE users.account
		SET canread = $2, canwrite = $3, candelete = $4, updatedat = $5
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		userID,
		permissions.Read,
		permissions.Write,
		permissions.Delete,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_permissions_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete permanently removes an account and, via cascade, its sessions.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or deletion failures
*/
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM users.account WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// scanOne runs a single-row account query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, argument any) (*User, error) {
	user := &User{}
	row := repository.pool.QueryRow(context, query, argument)

	if err := scanUser(row, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

// scanUser hydrates a User from any row-shaped scanner.
func scanUser(row pgx.Row, user *User) error {
	return row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Permissions.Read,
		&user.Permissions.Write,
		&user.Permissions.Delete,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// # Session Repository

// PostgresSessionRepository implements the [SessionRepository] interface.
//
// Sessions are stored as opaque SHA-256 hashes of the refresh token; the
// plain token never reaches the database.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool

	// retention caps how long a stored refresh token stays redeemable.
	retention time.Duration
}

// NewSessionRepository creates a new PostgreSQL implementation of the
// [SessionRepository] with the given retention window.
func NewSessionRepository(pool *pgxpool.Pool, retention time.Duration) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool, retention: retention}
}

/*
Add records a refresh token hash into the identity's active set.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Add(context context.Context, userID, tokenHash string) error {
	const query = `
		INSERT INTO users.session (userid, tokenhash, createdat)
		VALUES ($1, $2, $3)`

	_, err := repository.pool.Exec(context, query, userID, tokenHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_session_repo_add_failed: %w", err)
	}

	return nil
}

/*
Rotate atomically replaces one active refresh token hash with another.

Description: The delete and insert run as a single SQL statement, so two
concurrent rotations of the same token cannot both succeed — the loser sees
zero rows deleted and gets [ErrRefreshTokenUnknown]. Tokens older than the
retention window are treated as already gone.

Parameters:
  - context: context.Context
  - userID: string
  - oldHash: string (must currently be in the active set)
  - newHash: string

Returns:
  - error: ErrRefreshTokenUnknown or storage failures
*/
func (repository *PostgresSessionRepository) Rotate(context context.Context, userID, oldHash, newHash string) error {
	const query = `
		WITH spent AS (
			DELETE FROM users.session
			WHERE userid = $1 AND tokenhash = $2 AND createdat > $4
			RETURNING userid
		)
		INSERT INTO users.session (userid, tokenhash, createdat)
		SELECT userid, $3, $5 FROM spent`

	cutoff := time.Now().Add(-repository.retention)

	tag, err := repository.pool.Exec(context, query, userID, oldHash, newHash, cutoff, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_session_repo_rotate_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRefreshTokenUnknown
	}

	return nil
}

/*
Revoke removes one refresh token hash from the identity's active set.

Description: Idempotent — revoking an already-absent hash succeeds silently.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, userID, tokenHash string) error {
	const query = "DELETE FROM users.session WHERE userid = $1 AND tokenhash = $2"

	_, err := repository.pool.Exec(context, query, userID, tokenHash)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}

	return nil
}

/*
RevokeAll clears every refresh session of an identity.

Description: Security nuking of all active sessions for an account, used by
logout-all-devices and password reset.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch deletion failures
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	const query = "DELETE FROM users.session WHERE userid = $1"

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}

	return nil
}

/*
DeleteExpired permanently removes sessions older than the retention window.

Description: Cleanup task to reclaim storage from stale sessions.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) error {
	const query = "DELETE FROM users.session WHERE createdat <= $1"

	_, err := repository.pool.Exec(context, query, time.Now().Add(-repository.retention))
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}

	return nil
}
