// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avelov/remark/internal/platform/apperr"
	"github.com/avelov/remark/internal/platform/sec"
	"github.com/avelov/remark/pkg/uuid"
)

// # Contracts & Types

// TokenCodec defines the contract for signing and verifying session tokens.
//
// The concrete implementation is [sec.TokenService]; the interface exists so
// service tests can run against isolated per-test codec configurations.
type TokenCodec interface {
	// Issue produces a signed token embedding the subject ID, type tag, and expiry.
	Issue(subjectID string, tokenType sec.TokenType, timeToLive time.Duration) (string, error)

	// Verify checks signature, expiry, and type tag, returning the subject ID.
	Verify(tokenString string, expected sec.TokenType) (string, error)
}

// PasswordHasher defines the one-way credential hashing contract.
type PasswordHasher interface {
	Hash(plainText string) (string, error)
	Verify(plainText, existingHash string) bool
}

// Notifier delivers a password-reset token to its recipient.
//
// The core never blocks on delivery; implementations may email, enqueue, or
// simply log the token.
type Notifier interface {
	SendPasswordReset(context context.Context, email, token string) error
}

// TokenPair is an access/refresh token pair handed to a client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is the result of a successful signup, login, or rotation.
type Session struct {
	Tokens TokenPair
	User   *User
}

// Service orchestrates the session-token lifecycle.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, rotation,
// or login logic must be reviewed carefully.
type Service struct {
	users       UserRepository
	sessions    SessionRepository
	resetTokens ResetTokenRepository
	codec       TokenCodec
	hasher      PasswordHasher
	notifier    Notifier

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService constructs the session [Service] with its dependencies and the
// process-wide token lifetimes.
func NewService(
	users UserRepository,
	sessions SessionRepository,
	resetTokens ResetTokenRepository,
	codec TokenCodec,
	hasher PasswordHasher,
	notifier Notifier,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:       users,
		sessions:    sessions,
		resetTokens: resetTokens,
		codec:       codec,
		hasher:      hasher,
		notifier:    notifier,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new identity.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

/*
Signup validates, hashes, and persists a brand new identity, then establishes
its first session.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *Session: Token pair plus created identity
  - error: Duplicate-email or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Session, error) {
	email := normalizeEmail(input.Email)

	// Verify email uniqueness. The message matches the storage-layer
	// constraint error so both paths look identical to the client.
	if _, err := service.users.FindByEmail(context, email); err == nil {
		return nil, apperr.ValidationError("User already exists with this email")
	}

	// Never store plain-text passwords.
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Permissions:  DefaultPermissions(),
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	return service.establishSession(context, user)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates credentials and issues a fresh token pair.

Description: The failure message is identical for an unknown email and a wrong
password, to prevent account enumeration.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Token pair plus identity
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	user, err := service.users.FindByEmail(context, normalizeEmail(input.Email))
	if err != nil {
		// Only an absent record reads as bad credentials; a store failure
		// must surface as an opaque 500, never as a login rejection.
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	return service.establishSession(context, user)
}

/*
Authenticate verifies an access token and resolves its subject.

Description: Token verification is pure; the identity is re-read from the
store on every call so revoked accounts and fresh capability flags take
effect immediately.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *User: The authenticated identity
  - error: 401 for expired token or vanished subject, 403 for any
    structurally invalid token
*/
func (service *Service) Authenticate(context context.Context, accessToken string) (*User, error) {
	subjectID, err := service.codec.Verify(accessToken, sec.TokenTypeAccess)
	if err != nil {
		// Expiry is distinguished so clients know to refresh instead of re-login.
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Access token expired")
		}
		return nil, apperr.Forbidden("Invalid access token")
	}

	user, err := service.users.FindByID(context, subjectID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("User not found")
		}
		return nil, fmt.Errorf("auth_service_subject_lookup_failed: %w", err)
	}

	return user, nil
}

// # Session Management

/*
Refresh implements the refresh-token rotation mechanism.

Description: Verifies the presented refresh token against both the codec and
the identity's active set, then atomically replaces it with a newly issued
one. A token that is structurally valid but absent from the active set —
already rotated, revoked, or fabricated — fails identically.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: Fresh access token and rotated refresh token
  - err: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {
	subjectID, err := service.codec.Verify(refreshToken, sec.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Refresh token expired")
		}
		return nil, apperr.Forbidden("Invalid refresh token")
	}

	user, err := service.users.FindByID(context, subjectID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("User not found")
		}
		return nil, fmt.Errorf("auth_service_refresh_subject_lookup_failed: %w", err)
	}

	// Mint the replacement pair before touching the store, so the swap below
	// is a single atomic operation.
	pair, err := service.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	// Exactly one of two concurrent rotations of the same token can win here.
	err = service.sessions.Rotate(context, user.ID, sec.HashToken(refreshToken), sec.HashToken(pair.RefreshToken))
	if err != nil {
		if errors.Is(err, ErrRefreshTokenUnknown) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, fmt.Errorf("auth_service_rotate_failed: %w", err)
	}

	return &Session{Tokens: pair, User: user}, nil
}

/*
Logout revokes one refresh token, or every active session when none is named.

Description: Idempotent — revoking an already-absent token is not an error.

Parameters:
  - context: context.Context
  - userID: string
  - refreshToken: string (empty means logout-all-devices)

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		if err := service.sessions.RevokeAll(context, userID); err != nil {
			return fmt.Errorf("auth_service_logout_all_failed: %w", err)
		}
		return nil
	}

	if err := service.sessions.Revoke(context, userID, sec.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Always succeeds from the caller's perspective — whether or not
the email matches an identity is never revealed. A new token overwrites any
prior outstanding one, and delivery is handed to the [Notifier] without
blocking.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: The issued token, empty when the email matched nothing
    (exposed to responses only in development mode)
  - err: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	user, err := service.users.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		// An unmatched email is silent success; a store failure is not.
		if apperr.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("auth_service_reset_request_lookup_failed: %w", err)
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokens.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	// Fire-and-forget delivery; the detached context survives the request.
	deliveryContext := detachContext(context)
	go func() {
		_ = service.notifier.SendPasswordReset(deliveryContext, user.Email, token)
	}()

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Redeems the token exactly once — the credential hash is replaced,
the token cleared, and EVERY active refresh session revoked so a password
reset never leaves old sessions alive.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return apperr.ValidationError(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}

	userID, err := service.resetTokens.Get(context, token)
	if err != nil {
		if errors.Is(err, ErrResetTokenNotFound) {
			return apperr.ValidationError("Invalid or expired reset token")
		}
		return fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}

	hashedPassword, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security cleanup: invalidate every session for this identity.
	if err := service.sessions.RevokeAll(context, userID); err != nil {
		return fmt.Errorf("auth_service_reset_revoke_failed: %w", err)
	}

	// Single-use by construction; a token surviving this point would stay
	// redeemable, so a failed delete fails the whole operation.
	if err := service.resetTokens.Delete(context, token); err != nil {
		return fmt.Errorf("auth_service_reset_cleanup_failed: %w", err)
	}

	return nil
}

// # Internals

// establishSession mints a token pair and persists the refresh half into the
// identity's active set.
func (service *Service) establishSession(context context.Context, user *User) (*Session, error) {
	pair, err := service.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := service.sessions.Add(context, user.ID, sec.HashToken(pair.RefreshToken)); err != nil {
		return nil, fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}

	return &Session{Tokens: pair, User: user}, nil
}

// issuePair calls the codec twice with the two distinct TTLs.
func (service *Service) issuePair(subjectID string) (TokenPair, error) {
	accessToken, err := service.codec.Issue(subjectID, sec.TokenTypeAccess, service.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.codec.Issue(subjectID, sec.TokenTypeRefresh, service.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// normalizeEmail lowercases and trims an email for storage and lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// detachContext strips cancellation so background work outlives the request.
func detachContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
