// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelov/remark/internal/platform/apperr"
)

// PostgresCommentRepository implements [CommentRepository] using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of the [CommentRepository].
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

/*
Create persists a new comment into the social.comment table.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO social.comment (id, content, authorid, authorname, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.Content,
		comment.AuthorID,
		comment.AuthorName,
		comment.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_comment_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves one comment by its ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Comment: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresCommentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	const query = `
		SELECT id, content, authorid, authorname, createdat
		FROM social.comment
		WHERE id = $1`

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.Content,
		&comment.AuthorID,
		&comment.AuthorName,
		&comment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_failed: %w", err)
	}

	return comment, nil
}

/*
ListAll retrieves every comment, newest first.

Parameters:
  - context: context.Context

Returns:
  - []*Comment: All comments
  - error: Query or scan failures
*/
func (repository *PostgresCommentRepository) ListAll(context context.Context) ([]*Comment, error) {
	const query = `
		SELECT id, content, authorid, authorname, createdat
		FROM social.comment
		ORDER BY createdat DESC`

	return repository.queryMany(context, query)
}

/*
ListByAuthor retrieves one author's comments, newest first.

Parameters:
  - context: context.Context
  - authorID: string

Returns:
  - []*Comment: The author's comments, possibly empty
  - error: Query or scan failures
*/
func (repository *PostgresCommentRepository) ListByAuthor(context context.Context, authorID string) ([]*Comment, error) {
	const query = `
		SELECT id, content, authorid, authorname, createdat
		FROM social.comment
		WHERE authorid = $1
		ORDER BY createdat DESC`

	return repository.queryMany(context, query, authorID)
}

/*
Delete permanently removes a comment.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or deletion failures
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM social.comment WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

// queryMany runs a multi-row comment query and hydrates the results.
func (repository *PostgresCommentRepository) queryMany(context context.Context, query string, arguments ...any) ([]*Comment, error) {
	rows, err := repository.pool.Query(context, query, arguments...)
	if err != nil {
		return nil, fmt.Errorf("postgres_comment_repo_query_failed: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.AuthorID,
			&comment.AuthorName,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_comment_repo_rows_failed: %w", err)
	}

	return comments, nil
}
