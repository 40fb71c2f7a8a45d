// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelov/remark/internal/platform/apperr"
	requestutil "github.com/avelov/remark/internal/platform/request"
	"github.com/avelov/remark/internal/platform/respond"
	"github.com/avelov/remark/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the identity lifecycle entry
// points (Registration, Login, Rotation, Recovery).
type Handler struct {
	authService *Service
	gate        *Gate

	// development echoes reset tokens in responses for local testing.
	development bool
}

// NewHandler constructs a new [Handler] with its service dependencies.
func NewHandler(service *Service, gate *Gate, development bool) *Handler {
	return &Handler{authService: service, gate: gate, development: development}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup          : Creates a new account.
//   - POST /login           : Authenticates and returns a token pair.
//   - POST /refresh         : Rotates a refresh token.
//   - POST /forgot-password : Starts the password-recovery flow.
//   - POST /reset-password  : Redeems a recovery token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.gate.Require)
		r.Post("/logout", handler.logout)
		r.Get("/profile", handler.profile)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// # Handlers

/*
Signup handles the creation of a new user account.

POST /api/v1/auth/signup

Description: Validates input, checks for identity conflicts, persists a new
profile, and establishes the account's first session.

Request:
  - Body: signupRequest (Name, Email, Password)

Response:
  - 201: Session: Created profile plus token pair
  - 400: ErrInvalidJSON: Bad input, validation failure, or duplicate email
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, NameMinLength).
		MaxLen(FieldName, input.Name, NameMaxLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Signup(request.Context(), SignupInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldMessage: "User created successfully",
		FieldUser:    session.User,
		FieldTokens:  session.Tokens,
	})
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and returns a fresh token pair. The failure
message never reveals whether the email or the password was wrong.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Profile plus token pair
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Login successful",
		FieldUser:    session.User,
		FieldTokens:  session.Tokens,
	})
}

/*
Refresh rotates a refresh token into a fresh token pair.

POST /api/v1/auth/refresh

Description: Validates the presented refresh token against the identity's
active set, then atomically replaces it. The spent token is dead afterwards.

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: TokenPair: New access and refresh tokens
  - 401: ErrUnauthorized: Missing, expired, or already-rotated token
  - 403: ErrForbidden: Structurally invalid token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Refresh token required"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldTokens: session.Tokens,
	})
}

/*
Logout revokes the caller's refresh session(s).

POST /api/v1/auth/logout

Description: When a refresh token is supplied, only that device's session is
revoked; otherwise every session of the authenticated identity is cleared.

Request:
  - Body: logoutRequest (RefreshToken, optional)

Response:
  - 200: Success: Session(s) terminated
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	user := FromContext(request.Context())

	// The body is optional here; an empty or absent one means logout-everywhere.
	var input logoutRequest
	_ = requestutil.DecodeJSON(request, &input)

	if err := handler.authService.Logout(request.Context(), user.ID, input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Logout successful",
	})
}

/*
Profile returns the authenticated identity.

GET /api/v1/auth/profile

Response:
  - 200: User: The caller's own profile
  - 401: ErrUnauthorized: Missing or invalid access token
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{
		FieldUser: FromContext(request.Context()),
	})
}

/*
ForgotPassword starts the password-recovery flow.

POST /api/v1/auth/forgot-password

Description: Always answers with the same message whether or not the email
matched an account, to prevent enumeration. In development mode the issued
token is echoed back for testing.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Uniform acknowledgement
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload := map[string]any{
		FieldMessage: "If email exists, password reset instructions have been sent",
	}
	if handler.development && token != "" {
		payload["reset_token"] = token
	}

	respond.OK(writer, payload)
}

/*
ResetPassword redeems a recovery token and sets a new credential.

POST /api/v1/auth/reset-password

Description: A successful reset consumes the token and revokes every active
refresh session of the identity.

Request:
  - Body: resetPasswordRequest (Token, NewPassword)

Response:
  - 200: Success: Password replaced
  - 400: ErrInvalidJSON: Missing fields, weak password, or dead token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Password reset successful",
	})
}
