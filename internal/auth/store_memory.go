// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avelov/remark/internal/platform/apperr"
)

// In-memory repository implementations backing the service tests. They hold
// the same invariants as the Postgres and Redis implementations, including
// the single-winner rotation guarantee, but lose everything on restart.

// # User Repository

// MemoryUserRepository is a thread-safe in-memory [UserRepository].
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

var _ UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (repository *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	clone := *user
	return &clone, nil
}

func (repository *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	clone := *repository.byID[id]
	return &clone, nil
}

func (repository *MemoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.byEmail[user.Email]; exists {
		return apperr.ValidationError("User already exists with this email")
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	clone := *user
	repository.byID[user.ID] = &clone
	repository.byEmail[user.Email] = user.ID

	return nil
}

func (repository *MemoryUserRepository) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	all := make([]*User, 0, len(repository.byID))
	for _, user := range repository.byID {
		clone := *user
		all = append(all, &clone)
	}

	// Newest first, matching the SQL implementation's ordering.
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []*User{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return all[offset:end], total, nil
}

func (repository *MemoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}

	user.PasswordHash = newHash
	user.UpdatedAt = time.Now()
	return nil
}

func (repository *MemoryUserRepository) UpdatePermissions(_ context.Context, userID string, permissions Permissions) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}

	user.Permissions = permissions
	user.UpdatedAt = time.Now()
	return nil
}

func (repository *MemoryUserRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}

	delete(repository.byEmail, user.Email)
	delete(repository.byID, id)
	return nil
}

// # Session Repository

// MemorySessionRepository is a thread-safe in-memory [SessionRepository].
type MemorySessionRepository struct {
	mu sync.Mutex

	// sessions maps userID -> tokenHash -> creation time.
	sessions  map[string]map[string]time.Time
	retention time.Duration
}

var _ SessionRepository = (*MemorySessionRepository)(nil)

// NewMemorySessionRepository creates an in-memory session repository with the
// given retention window.
func NewMemorySessionRepository(retention time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions:  make(map[string]map[string]time.Time),
		retention: retention,
	}
}

func (repository *MemorySessionRepository) Add(_ context.Context, userID, tokenHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.sessions[userID] == nil {
		repository.sessions[userID] = make(map[string]time.Time)
	}
	repository.sessions[userID][tokenHash] = time.Now()
	return nil
}

// Rotate swaps oldHash for newHash under the lock, so exactly one of two
// concurrent rotations of the same token can succeed.
func (repository *MemorySessionRepository) Rotate(_ context.Context, userID, oldHash, newHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	userSessions := repository.sessions[userID]
	createdAt, ok := userSessions[oldHash]
	if !ok || time.Since(createdAt) > repository.retention {
		return ErrRefreshTokenUnknown
	}

	delete(userSessions, oldHash)
	userSessions[newHash] = time.Now()
	return nil
}

func (repository *MemorySessionRepository) Revoke(_ context.Context, userID, tokenHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.sessions[userID], tokenHash)
	return nil
}

func (repository *MemorySessionRepository) RevokeAll(_ context.Context, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.sessions, userID)
	return nil
}

func (repository *MemorySessionRepository) DeleteExpired(_ context.Context) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	cutoff := time.Now().Add(-repository.retention)
	for userID, userSessions := range repository.sessions {
		for tokenHash, createdAt := range userSessions {
			if createdAt.Before(cutoff) {
				delete(userSessions, tokenHash)
			}
		}
		if len(userSessions) == 0 {
			delete(repository.sessions, userID)
		}
	}
	return nil
}

// ActiveCount reports how many refresh sessions an identity currently holds.
// Test helper; not part of the [SessionRepository] contract.
func (repository *MemorySessionRepository) ActiveCount(userID string) int {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return len(repository.sessions[userID])
}

// # Reset Token Repository

type memoryResetToken struct {
	userID    string
	expiresAt time.Time
}

// MemoryResetTokenRepository is a thread-safe in-memory [ResetTokenRepository].
type MemoryResetTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]memoryResetToken
	byUser map[string]string
}

var _ ResetTokenRepository = (*MemoryResetTokenRepository)(nil)

// NewMemoryResetTokenRepository creates an empty in-memory reset token repository.
func NewMemoryResetTokenRepository() *MemoryResetTokenRepository {
	return &MemoryResetTokenRepository{
		tokens: make(map[string]memoryResetToken),
		byUser: make(map[string]string),
	}
}

func (repository *MemoryResetTokenRepository) Set(_ context.Context, token string, userID string, ttl time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	// A fresh token supersedes the identity's prior one.
	if previous, ok := repository.byUser[userID]; ok {
		delete(repository.tokens, previous)
	}

	repository.tokens[token] = memoryResetToken{userID: userID, expiresAt: time.Now().Add(ttl)}
	repository.byUser[userID] = token
	return nil
}

func (repository *MemoryResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	entry, ok := repository.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", ErrResetTokenNotFound
	}

	return entry.userID, nil
}

func (repository *MemoryResetTokenRepository) Delete(_ context.Context, token string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if entry, ok := repository.tokens[token]; ok {
		delete(repository.byUser, entry.userID)
		delete(repository.tokens, token)
	}
	return nil
}
