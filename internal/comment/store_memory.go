// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package comment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avelov/remark/internal/platform/apperr"
)

// MemoryCommentRepository is a thread-safe in-memory [CommentRepository],
// backing the domain tests.
type MemoryCommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*Comment
}

var _ CommentRepository = (*MemoryCommentRepository)(nil)

// NewMemoryCommentRepository creates an empty in-memory comment repository.
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[string]*Comment)}
}

func (repository *MemoryCommentRepository) Create(_ context.Context, comment *Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	clone := *comment
	repository.comments[comment.ID] = &clone
	return nil
}

func (repository *MemoryCommentRepository) FindByID(_ context.Context, id string) (*Comment, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	comment, ok := repository.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}

	clone := *comment
	return &clone, nil
}

func (repository *MemoryCommentRepository) ListAll(_ context.Context) ([]*Comment, error) {
	return repository.collect(func(*Comment) bool { return true }), nil
}

func (repository *MemoryCommentRepository) ListByAuthor(_ context.Context, authorID string) ([]*Comment, error) {
	return repository.collect(func(comment *Comment) bool {
		return comment.AuthorID == authorID
	}), nil
}

func (repository *MemoryCommentRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}

	delete(repository.comments, id)
	return nil
}

// collect snapshots matching comments, newest first.
func (repository *MemoryCommentRepository) collect(match func(*Comment) bool) []*Comment {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	matched := []*Comment{}
	for _, comment := range repository.comments {
		if match(comment) {
			clone := *comment
			matched = append(matched, &clone)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched
}
