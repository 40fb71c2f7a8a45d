// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelov/remark/internal/account"
	"github.com/avelov/remark/internal/auth"
	"github.com/avelov/remark/internal/platform/sec"
)

// accountAPI wires an in-memory auth service and account handler into a
// routable test fixture.
type accountAPI struct {
	handler     http.Handler
	authService *auth.Service
	users       *auth.MemoryUserRepository
}

func newAccountAPI(t *testing.T) *accountAPI {
	t.Helper()

	users := auth.NewMemoryUserRepository()
	sessions := auth.NewMemorySessionRepository(auth.RefreshTokenRetention)
	resets := auth.NewMemoryResetTokenRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	codec := sec.NewTokenService("test-access-secret", "test-refresh-secret", "remark.test")
	hasher := sec.NewHasher(bcrypt.MinCost)

	authService := auth.NewService(users, sessions, resets, codec, hasher,
		auth.NewLogNotifier(logger), 15*time.Minute, 7*24*time.Hour)
	gate := auth.NewGate(authService)

	service := account.NewService(users, logger)
	handler := account.NewHandler(service, gate)

	return &accountAPI{
		handler:     handler.Routes(),
		authService: authService,
		users:       users,
	}
}

// signup enrolls a user and returns an access token plus the account.
func (api *accountAPI) signup(t *testing.T, name, email string) (string, *auth.User) {
	t.Helper()

	session, err := api.authService.Signup(context.Background(), auth.SignupInput{
		Name:     name,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)

	return session.Tokens.AccessToken, session.User
}

func (api *accountAPI) perform(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, target, payload)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	api.handler.ServeHTTP(recorder, request)
	return recorder
}

// decodeEnvelope unwraps the standard success envelope's data object.
func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()

	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

/*
TestAccountList_RequiresAuth verifies the directory rejects anonymous callers
and serves any authenticated account regardless of capability flags.
*/
func TestAccountList_RequiresAuth(t *testing.T) {
	api := newAccountAPI(t)
	token, _ := api.signup(t, "First User", "first@example.com")

	t.Run("anonymous_rejected", func(t *testing.T) {
		recorder := api.perform(t, http.MethodGet, "/", "", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_listing", func(t *testing.T) {
		recorder := api.perform(t, http.MethodGet, "/", token, "")
		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data []map[string]any `json:"data"`
			Meta struct {
				Total int `json:"total"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		require.Len(t, envelope.Data, 1)
		assert.Equal(t, 1, envelope.Meta.Total)
		assert.Equal(t, "First User", envelope.Data[0]["name"])
	})
}

/*
TestAccountGet verifies fetching a single account and the 404 path.
*/
func TestAccountGet(t *testing.T) {
	api := newAccountAPI(t)
	token, user := api.signup(t, "First User", "first@example.com")

	t.Run("found", func(t *testing.T) {
		recorder := api.perform(t, http.MethodGet, "/"+user.ID, token, "")
		require.Equal(t, http.StatusOK, recorder.Code)

		data := decodeEnvelope(t, recorder)
		var fetched map[string]any
		require.NoError(t, json.Unmarshal(data["user"], &fetched))
		assert.Equal(t, user.ID, fetched["id"])
	})

	t.Run("unknown_id", func(t *testing.T) {
		recorder := api.perform(t, http.MethodGet, "/no-such-user", token, "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

/*
TestAccountUpdatePermissions verifies flag edits through the HTTP layer take
effect on the target's very next request.
*/
func TestAccountUpdatePermissions(t *testing.T) {
	api := newAccountAPI(t)

	adminToken, _ := api.signup(t, "Admin User", "admin@example.com")
	_, target := api.signup(t, "Target User", "target@example.com")

	recorder := api.perform(t, http.MethodPut, "/"+target.ID+"/permissions", adminToken,
		`{"permissions":{"write":true,"delete":true}}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	data := decodeEnvelope(t, recorder)
	var message string
	require.NoError(t, json.Unmarshal(data["message"], &message))
	assert.Equal(t, "Permissions updated successfully", message)

	// Omitted flags keep their values; read stays at its signup default.
	updated, err := api.users.FindByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.True(t, updated.Permissions.Read)
	assert.True(t, updated.Permissions.Write)
	assert.True(t, updated.Permissions.Delete)

	t.Run("malformed_body", func(t *testing.T) {
		recorder := api.perform(t, http.MethodPut, "/"+target.ID+"/permissions", adminToken, `{"permissions":`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown_user", func(t *testing.T) {
		recorder := api.perform(t, http.MethodPut, "/no-such-user/permissions", adminToken,
			`{"permissions":{"read":false}}`)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
