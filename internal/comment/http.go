// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelov/remark/internal/auth"
	requestutil "github.com/avelov/remark/internal/platform/request"
	"github.com/avelov/remark/internal/platform/respond"
	"github.com/avelov/remark/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for comments.
//
// # Routing Strategy
//
//   - GET / is soft-gated: anonymous or unauthorized callers receive an empty
//     list with an explanatory message, never an error status.
//   - All other endpoints are hard-gated behind authentication plus the
//     relevant capability flag.
type Handler struct {
	service       *Service
	gate          *auth.Gate
	authenticator auth.Authenticator
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service, gate *auth.Gate, authenticator auth.Authenticator) *Handler {
	return &Handler{service: service, gate: gate, authenticator: authenticator}
}

// Routes returns a [chi.Router] configured with comment endpoints.
//
// # Endpoints
//   - GET    /              : Lists all comments (soft-gated).
//   - POST   /              : Adds a comment (write capability).
//   - DELETE /{commentID}   : Removes a comment (delete capability).
//   - GET    /user/{userID} : Lists one author's comments (read capability).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(protected chi.Router) {
		protected.Use(handler.gate.Require)
		protected.With(handler.gate.RequirePermission(auth.CapabilityWrite)).Post("/", handler.create)
		protected.With(handler.gate.RequirePermission(auth.CapabilityDelete)).Delete("/{commentID}", handler.delete)
		protected.With(handler.gate.RequirePermission(auth.CapabilityRead)).Get("/user/{userID}", handler.listByUser)
	})

	return router
}

// # Request Payloads

type createCommentRequest struct {
	Content string `json:"content"`
}

// # Handlers

/*
List returns every comment, or an empty list for callers without read access.

GET /api/v1/comments

Description: This endpoint never rejects the caller. Anonymous requests,
invalid tokens, and identities lacking the read capability all receive an
HTTP 200 with an empty comment list and a message explaining why.

Response:
  - 200: []Comment: All comments, or empty with an explanatory message
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.BearerToken(request)
	if token == "" {
		respond.OK(writer, map[string]any{
			FieldComments: []*Comment{},
			FieldMessage:  "Authentication required to view comments",
		})
		return
	}

	user, err := handler.authenticator.Authenticate(request.Context(), token)
	if err != nil {
		respond.OK(writer, map[string]any{
			FieldComments: []*Comment{},
			FieldMessage:  "Invalid token",
		})
		return
	}

	if !user.Permissions.Read {
		respond.OK(writer, map[string]any{
			FieldComments: []*Comment{},
			FieldMessage:  "Read permission required to view comments",
		})
		return
	}

	comments, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldComments: comments,
	})
}

/*
Create adds a new comment authored by the caller.

POST /api/v1/comments

Request:
  - Body: createCommentRequest (Content, 1-1000 characters)

Response:
  - 201: Comment: The created comment
  - 400: ErrInvalidJSON: Bad input or content length violation
  - 401: ErrUnauthorized: Missing or invalid access token
  - 403: ErrForbidden: Write capability missing
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createCommentRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user := auth.FromContext(request.Context())

	created, err := handler.service.Create(request.Context(), user.ID, user.Name, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldMessage: "Comment added successfully",
		FieldComment: created,
	})
}

/*
Delete removes a comment by ID.

DELETE /api/v1/comments/{commentID}

Response:
  - 200: Success: Comment removed
  - 401: ErrUnauthorized: Missing or invalid access token
  - 403: ErrForbidden: Delete capability missing
  - 404: ErrNotFound: No such comment
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	commentID := requestutil.Param(request, "commentID")

	if err := handler.service.Delete(request.Context(), commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Comment deleted successfully",
	})
}

/*
ListByUser returns a single author's comments.

GET /api/v1/comments/user/{userID}

Response:
  - 200: []Comment: The author's comments, newest first
  - 401: ErrUnauthorized: Missing or invalid access token
  - 403: ErrForbidden: Read capability missing
*/
func (handler *Handler) listByUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	comments, err := handler.service.ListByAuthor(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldComments: comments,
	})
}
