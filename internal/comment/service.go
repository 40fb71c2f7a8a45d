// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package comment

import (
	"context"
	"log/slog"

	"github.com/avelov/remark/internal/platform/validate"
	"github.com/avelov/remark/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for comments.
type Service struct {
	commentRepo CommentRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(commentRepo CommentRepository, logger *slog.Logger) *Service {
	return &Service{
		commentRepo: commentRepo,
		logger:      logger,
	}
}

// # Comment Operations

/*
List retrieves every comment, newest first.

Parameters:
  - context: context.Context

Returns:
  - []*Comment: All comments
  - error: Storage or execution errors
*/
func (service *Service) List(context context.Context) ([]*Comment, error) {
	return service.commentRepo.ListAll(context)
}

/*
ListByAuthor retrieves one author's comments, newest first.

Parameters:
  - context: context.Context
  - authorID: string

Returns:
  - []*Comment: The author's comments, possibly empty
  - error: Storage or execution errors
*/
func (service *Service) ListByAuthor(context context.Context, authorID string) ([]*Comment, error) {
	return service.commentRepo.ListByAuthor(context, authorID)
}

/*
Create validates and persists a new comment.

Description: The author's display name is denormalized onto the comment at
creation time; later renames do not rewrite history.

Parameters:
  - context: context.Context
  - authorID: string
  - authorName: string
  - content: string

Returns:
  - *Comment: The created entity
  - error: Validation or persistence errors
*/
func (service *Service) Create(context context.Context, authorID, authorName, content string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldContent, content).
		MinLen(FieldContent, content, ContentMinLength).
		MaxLen(FieldContent, content, ContentMaxLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created := &Comment{
		ID:         uuid.New(),
		Content:    content,
		AuthorID:   authorID,
		AuthorName: authorName,
	}

	if err := service.commentRepo.Create(context, created); err != nil {
		return nil, err
	}

	return created, nil
}

/*
Delete permanently removes a comment by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or deletion failures
*/
func (service *Service) Delete(context context.Context, id string) error {
	// Existence check first so callers get a clean 404 instead of a silent no-op.
	if _, err := service.commentRepo.FindByID(context, id); err != nil {
		return err
	}

	return service.commentRepo.Delete(context, id)
}
