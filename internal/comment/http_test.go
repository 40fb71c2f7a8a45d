// Copyright (c) 2026 Remark. All rights reserved.
// Author: a.velov.dev@gmail.com

package comment_test

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

	"github.com/avelov/remark/internal/auth"
	"github.com/avelov/remark/internal/comment"
	"github.com/avelov/remark/internal/platform/sec"
)

// commentAPI wires an in-memory auth service and comment handler into a
// routable test fixture.
type commentAPI struct {
	handler     http.Handler
	authService *auth.Service
	users       *auth.MemoryUserRepository
	comments    *comment.MemoryCommentRepository
}

func newCommentAPI(t *testing.T) *commentAPI {
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

	comments := comment.NewMemoryCommentRepository()
	service := comment.NewService(comments, logger)
	handler := comment.NewHandler(service, gate, authService)

	return &commentAPI{
		handler:     handler.Routes(),
		authService: authService,
		users:       users,
		comments:    comments,
	}
}

// signup enrolls a user with the given capabilities and returns an access token.
func (api *commentAPI) signup(t *testing.T, email string, permissions auth.Permissions) (string, *auth.User) {
	t.Helper()

	session, err := api.authService.Signup(context.Background(), auth.SignupInput{
		Name:     "Test Author",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)

	err = api.users.UpdatePermissions(context.Background(), session.User.ID, permissions)
	require.NoError(t, err)

	return session.Tokens.AccessToken, session.User
}

func (api *commentAPI) perform(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
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
TestCommentList_SoftGate verifies the listing endpoint degrades to an empty
list instead of rejecting unauthorized callers.
*/
func TestCommentList_SoftGate(t *testing.T) {
	api := newCommentAPI(t)

	// Seed one comment through a writer.
	writerToken, _ := api.signup(t, "writer@example.com", auth.Permissions{Read: true, Write: true})
	created := api.perform(t, http.MethodPost, "/", writerToken, `{"content":"hello world"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	assertEmptyList := func(t *testing.T, recorder *httptest.ResponseRecorder, message string) {
		t.Helper()
		require.Equal(t, http.StatusOK, recorder.Code)

		data := decodeEnvelope(t, recorder)
		var comments []json.RawMessage
		require.NoError(t, json.Unmarshal(data["comments"], &comments))
		assert.Empty(t, comments)

		var gotMessage string
		require.NoError(t, json.Unmarshal(data["message"], &gotMessage))
		assert.Equal(t, message, gotMessage)
	}

	t.Run("anonymous", func(t *testing.T) {
		recorder := api.perform(t, http.MethodGet, "/", "", "")
		assertEmptyList(t, recorder, "Authentication required to view comments")
	})

	t.Run("invalid_token", func(t *testing.T) {
		recorder := api.perform(t, http.MethodGet, "/", "garbage-token", "")
		assertEmptyList(t, recorder, "Invalid token")
	})

	t.Run("missing_read_capability", func(t *testing.T) {
		token, _ := api.signup(t, "noread@example.com", auth.Permissions{})
		recorder := api.perform(t, http.MethodGet, "/", token, "")
		assertEmptyList(t, recorder, "Read permission required to view comments")
	})

	t.Run("reader_sees_comments", func(t *testing.T) {
		token, _ := api.signup(t, "reader@example.com", auth.Permissions{Read: true})
		recorder := api.perform(t, http.MethodGet, "/", token, "")
		require.Equal(t, http.StatusOK, recorder.Code)

		data := decodeEnvelope(t, recorder)
		var comments []map[string]any
		require.NoError(t, json.Unmarshal(data["comments"], &comments))
		require.Len(t, comments, 1)
		assert.Equal(t, "hello world", comments[0]["content"])
	})
}

/*
TestCommentCreate_Gating checks the write capability is enforced on POST.
*/
func TestCommentCreate_Gating(t *testing.T) {
	api := newCommentAPI(t)

	t.Run("anonymous_rejected", func(t *testing.T) {
		recorder := api.perform(t, http.MethodPost, "/", "", `{"content":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("missing_write_capability", func(t *testing.T) {
		token, _ := api.signup(t, "reader@example.com", auth.Permissions{Read: true})
		recorder := api.perform(t, http.MethodPost, "/", token, `{"content":"nope"}`)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("writer_succeeds", func(t *testing.T) {
		token, user := api.signup(t, "writer@example.com", auth.Permissions{Read: true, Write: true})
		recorder := api.perform(t, http.MethodPost, "/", token, `{"content":"a fine comment"}`)
		require.Equal(t, http.StatusCreated, recorder.Code)

		data := decodeEnvelope(t, recorder)
		var created map[string]any
		require.NoError(t, json.Unmarshal(data["comment"], &created))
		assert.Equal(t, "a fine comment", created["content"])
		assert.Equal(t, user.ID, created["author_id"])
		assert.Equal(t, "Test Author", created["author_name"])
	})

	t.Run("content_too_long", func(t *testing.T) {
		token, _ := api.signup(t, "writer2@example.com", auth.Permissions{Read: true, Write: true})
		body := `{"content":"` + strings.Repeat("a", 1001) + `"}`
		recorder := api.perform(t, http.MethodPost, "/", token, body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestCommentDelete_Gating checks the delete capability and the 404 path.
*/
func TestCommentDelete_Gating(t *testing.T) {
	api := newCommentAPI(t)

	writerToken, _ := api.signup(t, "writer@example.com", auth.Permissions{Read: true, Write: true})
	created := api.perform(t, http.MethodPost, "/", writerToken, `{"content":"doomed"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	var commentID string
	data := decodeEnvelope(t, created)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(data["comment"], &payload))
	commentID = payload["id"].(string)

	t.Run("missing_delete_capability", func(t *testing.T) {
		recorder := api.perform(t, http.MethodDelete, "/"+commentID, writerToken, "")
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("moderator_succeeds", func(t *testing.T) {
		token, _ := api.signup(t, "mod@example.com", auth.Permissions{Read: true, Delete: true})
		recorder := api.perform(t, http.MethodDelete, "/"+commentID, token, "")
		assert.Equal(t, http.StatusOK, recorder.Code)

		// Gone now.
		recorder = api.perform(t, http.MethodDelete, "/"+commentID, token, "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

/*
TestCommentListByUser filters by author and requires the read capability.
*/
func TestCommentListByUser(t *testing.T) {
	api := newCommentAPI(t)

	firstToken, firstUser := api.signup(t, "first@example.com", auth.Permissions{Read: true, Write: true})
	secondToken, _ := api.signup(t, "second@example.com", auth.Permissions{Read: true, Write: true})

	require.Equal(t, http.StatusCreated, api.perform(t, http.MethodPost, "/", firstToken, `{"content":"mine"}`).Code)
	require.Equal(t, http.StatusCreated, api.perform(t, http.MethodPost, "/", secondToken, `{"content":"theirs"}`).Code)

	recorder := api.perform(t, http.MethodGet, "/user/"+firstUser.ID, secondToken, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	data := decodeEnvelope(t, recorder)
	var comments []map[string]any
	require.NoError(t, json.Unmarshal(data["comments"], &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "mine", comments[0]["content"])
}
