// AngelaMos | 2026
// handler_test.go

package message

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(next http.Handler) http.Handler {
	return next
}

func reject401(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func newTestRouter(
	repo Repository,
	notifier *fakeNotifier,
	authenticator func(http.Handler) http.Handler,
) chi.Router {
	handler := NewHandler(NewService(repo, notifier))

	r := chi.NewRouter()
	handler.RegisterRoutes(r, authenticator, passthrough, passthrough)
	return r
}

func doJSON(
	t *testing.T,
	router chi.Router,
	method, target string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedMessage(t *testing.T, repo *fakeRepository) *Message {
	t.Helper()

	msg := &Message{
		ID:      uuid.New().String(),
		Email:   "sender@example.com",
		Message: "is the venue open on sundays?",
	}
	require.NoError(t, repo.Create(context.Background(), msg))
	return msg
}

func TestHandler_CreateMessage(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	router := newTestRouter(repo, notifier, passthrough)

	rec := doJSON(t, router, http.MethodPost, "/messages", map[string]any{
		"firstName": "Alice",
		"email":     "  Alice@Example.com  ",
		"message":   "  hello there, quick question  ",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Message string          `json:"message"`
		Data    MessageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "created", envelope.Message)
	assert.Equal(t, "alice@example.com", envelope.Data.Email)
	assert.Equal(t, "hello there, quick question", envelope.Data.Message)
	assert.NotEmpty(t, envelope.Data.ID)
	assert.False(t, envelope.Data.IsRead)

	assert.Equal(t, 1, notifier.adminCalls)
}

func TestHandler_CreateMessage_ValidationFailure(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, passthrough)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"message": "hello there"}},
		{"bad email", map[string]any{
			"email":   "not-an-email",
			"message": "hello there",
		}},
		{"message too short", map[string]any{
			"email":   "alice@example.com",
			"message": "hi",
		}},
		{"padded message below minimum", map[string]any{
			"email":   "alice@example.com",
			"message": "  hi  ",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/messages", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_ListMessages(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, passthrough)

	seedMessage(t, repo)
	seedMessage(t, repo)

	rec := doJSON(t, router, http.MethodGet, "/messages?page=1&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data ListMessagesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Messages, 2)
	assert.Equal(t, 2, envelope.Data.Stats.Total)
	assert.Equal(t, 1, envelope.Data.Pagination.Page)
	assert.Equal(t, 10, envelope.Data.Pagination.Limit)
}

func TestHandler_ListMessages_IgnoresMalformedParams(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, passthrough)

	rec := doJSON(
		t,
		router,
		http.MethodGet,
		"/messages?page=banana&limit=-5&filter=starred&sortOrder=up",
		nil,
	)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data ListMessagesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Pagination.Page)
	assert.Equal(t, 20, envelope.Data.Pagination.Limit)
}

func TestHandler_UpdateMessage_Reply(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	router := newTestRouter(repo, notifier, passthrough)

	msg := seedMessage(t, repo)

	rec := doJSON(t, router, http.MethodPatch, "/messages", map[string]any{
		"id":       msg.ID,
		"response": "yes, ten to four",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data UpdateMessageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Message.IsReplied)
	require.NotNil(t, envelope.Data.Notified)
	assert.True(t, *envelope.Data.Notified)

	assert.Equal(t, "sender@example.com", notifier.lastReplyEmail)
}

func TestHandler_UpdateMessage_ReplyAndMarkUnread(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, passthrough)

	msg := seedMessage(t, repo)

	rec := doJSON(t, router, http.MethodPatch, "/messages", map[string]any{
		"id":       msg.ID,
		"response": "answered",
		"markRead": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data UpdateMessageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Message.IsReplied)
	assert.False(t, envelope.Data.Message.IsRead)
}

func TestHandler_UpdateMessage_RequiresAField(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, passthrough)

	msg := seedMessage(t, repo)

	rec := doJSON(t, router, http.MethodPatch, "/messages", map[string]any{
		"id": msg.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UpdateMessage_NotFound(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, passthrough)

	rec := doJSON(t, router, http.MethodPatch, "/messages", map[string]any{
		"id":       uuid.New().String(),
		"markRead": true,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DeleteMessage(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, passthrough)

	msg := seedMessage(t, repo)

	rec := doJSON(
		t,
		router,
		http.MethodDelete,
		"/messages?id="+msg.ID,
		nil,
	)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Message string                `json:"message"`
		Data    DeleteMessageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Message)
	assert.Equal(t, msg.ID, envelope.Data.ID)
	assert.False(t, envelope.Data.Permanent)

	// Soft delete keeps the row.
	stored, ok := repo.messages[msg.ID]
	require.True(t, ok)
	assert.NotNil(t, stored.DeletedAt)

	rec = doJSON(
		t,
		router,
		http.MethodDelete,
		"/messages?id="+msg.ID+"&permanent=true",
		nil,
	)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Permanent)

	_, ok = repo.messages[msg.ID]
	assert.False(t, ok)
}

func TestHandler_DeleteMessage_RejectsBadID(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, passthrough)

	rec := doJSON(t, router, http.MethodDelete, "/messages", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A malformed id is rejected before it can reach the store.
	rec = doJSON(t, router, http.MethodDelete, "/messages?id=not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// The admin surface sits behind the authenticator; creation does not.
func TestHandler_RouteProtection(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo, &fakeNotifier{}, reject401)

	rec := doJSON(t, router, http.MethodGet, "/messages", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/messages", map[string]any{
		"id": uuid.New().String(),
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/messages?id=x", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/messages", map[string]any{
		"email":   "alice@example.com",
		"message": "hello there, quick question",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
