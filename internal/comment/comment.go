// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

/*
Package comment implements the comment domain of the Remark platform.

Comments are flat (no threading) and carry a denormalized author name so
listings render without a join against the account table.
*/
package comment

import "time"

// Comment is a single user-authored comment.
type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Content Rules

const (
	ContentMinLength = 1
	ContentMaxLength = 1000
)

// # Field Identifiers

const (
	FieldContent  = "content"
	FieldComments = "comments"
	FieldComment  = "comment"
	FieldMessage  = "message"
)
