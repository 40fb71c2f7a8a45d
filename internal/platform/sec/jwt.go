// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenCodec] interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avelov/remark/pkg/uuid"
)

// TokenType tags a signed token as belonging to exactly one lifecycle.
//
// Access and refresh tokens are signed with independent secrets AND carry this
// tag in their claims, so a leaked access-token secret cannot be used to forge
// refresh tokens and an access token can never be replayed where a refresh
// token is expected.
type TokenType string

const (
	// TokenTypeAccess marks short-lived tokens authorizing immediate API calls.
	TokenTypeAccess TokenType = "access"

	// TokenTypeRefresh marks long-lived tokens exchanged for new token pairs.
	TokenTypeRefresh TokenType = "refresh"
)

// # Verification Failures

var (
	// ErrTokenMalformed indicates the string could not be parsed as a JWT.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrSignatureInvalid indicates the signature does not match the payload.
	ErrSignatureInvalid = errors.New("sec: token signature is invalid")

	// ErrTokenExpired indicates the embedded expiry is in the past.
	ErrTokenExpired = errors.New("sec: token is expired")

	// ErrTokenTypeMismatch indicates the embedded type tag does not match the
	// type the caller expected.
	ErrTokenTypeMismatch = errors.New("sec: token type mismatch")
)

// SessionClaims is the payload embedded inside every signed session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// TokenType is abbreviated to keep the JWT payload small.
	TokenType string `json:"typ"`
}

// TokenService signs and verifies compact session tokens using HS256.
//
// # Secrets
//
// The two signing secrets are process-wide configuration loaded once at
// startup and injected here — never ambient globals. Rotating a secret
// invalidates every outstanding token of that type; this is the
// revocation-of-last-resort mechanism.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
}

// NewTokenService creates a [TokenService] with independent per-type secrets.
func NewTokenService(accessSecret, refreshSecret, issuer string) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
	}
}

// Issue produces a signed token embedding the subject ID, the type tag, and
// an expiry computed from ttl.
//
// Every token carries a unique 'jti', so two tokens minted within the same
// second for the same subject are still distinct strings. Session storage
// keys on the token hash and depends on this.
func (service *TokenService) Issue(subjectID string, tokenType TokenType, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   subjectID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		TokenType: string(tokenType),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secretFor(tokenType))
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks signature, expiry, and type tag of a token string and returns
// the embedded subject ID.
//
// # Failure Modes
//
// Returns [ErrTokenMalformed], [ErrSignatureInvalid], [ErrTokenExpired], or
// [ErrTokenTypeMismatch]. Callers rely on [errors.Is] to distinguish expiry
// (client should refresh) from everything else (client must re-authenticate).
func (service *TokenService) Verify(tokenString string, expected TokenType) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secretFor(expected), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrSignatureInvalid
		default:
			return "", fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", ErrSignatureInvalid
	}

	if claims.TokenType != string(expected) {
		return "", ErrTokenTypeMismatch
	}

	return claims.Subject, nil
}

// secretFor selects the signing secret for a token type.
func (service *TokenService) secretFor(tokenType TokenType) []byte {
	if tokenType == TokenTypeRefresh {
		return service.refreshSecret
	}
	return service.accessSecret
}
