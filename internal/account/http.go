// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelov/remark/internal/auth"
	requestutil "github.com/avelov/remark/internal/platform/request"
	"github.com/avelov/remark/internal/platform/respond"
	"github.com/avelov/remark/internal/platform/validate"
	"github.com/avelov/remark/pkg/pagination"
)

const (
	FieldUser    = "user"
	FieldMessage = "message"
)

// # Handler Implementation

// Handler implements the HTTP layer for identity administration.
//
// Every endpoint requires authentication; capability flags are deliberately
// not checked here so flag edits can bootstrap an empty deployment.
type Handler struct {
	service *Service
	gate    *auth.Gate
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, gate *auth.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// Routes returns a [chi.Router] configured with directory endpoints.
//
// # Endpoints
//   - GET /                     : Lists accounts (paginated).
//   - GET /{userID}             : Fetches one account.
//   - PUT /{userID}/permissions : Patches capability flags.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(handler.gate.Require)
	router.Get("/", handler.list)
	router.Get("/{userID}", handler.get)
	router.Put("/{userID}/permissions", handler.updatePermissions)

	return router
}

// # Request Payloads

type updatePermissionsRequest struct {
	Permissions PermissionsPatch `json:"permissions"`
}

// # Handlers

/*
List returns a page of the user directory.

GET /api/v1/users

Request:
  - limit: int (query, default 20)
  - page: int (query, default 1)

Response:
  - 200: []User: Accounts, newest first, with pagination metadata
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.service.List(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns a single account by ID.

GET /api/v1/users/{userID}

Response:
  - 200: User: The account
  - 401: ErrUnauthorized: Missing or invalid access token
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	user, err := handler.service.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldUser: user,
	})
}

/*
UpdatePermissions patches an account's capability flags.

PUT /api/v1/users/{userID}/permissions

Description: Flags omitted from the body keep their current values. The
updated flags take effect on the target's very next request, since the gate
re-reads the account per request.

Request:
  - Body: updatePermissionsRequest (Permissions: read/write/delete booleans)

Response:
  - 200: User: The account with its new flags
  - 400: ErrInvalidJSON: Malformed body
  - 401: ErrUnauthorized: Missing or invalid access token
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) updatePermissions(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	var input updatePermissionsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.service.UpdatePermissions(request.Context(), userID, input.Permissions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Permissions updated successfully",
		FieldUser:    user,
	})
}
