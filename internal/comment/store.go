// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package comment

import "context"

// # Storage Contracts

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	/*
		Create persists a new comment.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		FindByID retrieves one comment by its ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Comment: The hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		ListAll retrieves every comment, newest first.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Comment: All comments
		  - error: Storage failures
	*/
	ListAll(context context.Context) ([]*Comment, error)

	/*
		ListByAuthor retrieves one author's comments, newest first.

		Parameters:
		  - context: context.Context
		  - authorID: string

		Returns:
		  - []*Comment: The author's comments, possibly empty
		  - error: Storage failures
	*/
	ListByAuthor(context context.Context, authorID string) ([]*Comment, error)

	/*
		Delete permanently removes a comment.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id string) error
}
