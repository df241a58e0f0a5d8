// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/inbox-api/internal/core"
)

type headerSource struct{}

func (headerSource) Extract(r *http.Request) string {
	return r.Header.Get("X-Test-Token")
}

type fakeVerifier struct {
	claims map[string]*AccessTokenClaims
}

func (f *fakeVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	claims, ok := f.claims[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	return claims, nil
}

type fakeDenylist struct {
	denied map[string]bool
	err    error
}

func (f *fakeDenylist) IsDenied(
	_ context.Context,
	tokenID string,
) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.denied[tokenID], nil
}

func serveWithToken(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("X-Test-Token", token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator_ValidToken(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*AccessTokenClaims{
		"good-token": {
			UserID:  "user-1",
			Email:   "alice@example.com",
			Role:    "admin",
			TokenID: "jti-1",
		},
	}}

	var gotCtx context.Context
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCtx = r.Context()
		w.WriteHeader(http.StatusOK)
	})

	handler := Authenticator(headerSource{}, verifier, nil)(inner)

	rec := serveWithToken(handler, "good-token")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "user-1", GetUserID(gotCtx))
	assert.Equal(t, "alice@example.com", GetUserEmail(gotCtx))
	assert.Equal(t, "admin", GetUserRole(gotCtx))
	assert.True(t, IsAuthenticated(gotCtx))
	assert.True(t, IsAdmin(gotCtx))

	claims := GetClaims(gotCtx)
	require.NotNil(t, claims)
	assert.Equal(t, "jti-1", claims.TokenID)
}

// Missing, garbage, and revoked tokens must all come back as a plain 401.
func TestAuthenticator_UniformRejection(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*AccessTokenClaims{
		"good-token": {UserID: "user-1", TokenID: "jti-1"},
	}}
	denylist := &fakeDenylist{denied: map[string]bool{"jti-1": true}}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticator(headerSource{}, verifier, denylist)(inner)

	for _, token := range []string{"", "garbage", "good-token"} {
		rec := serveWithToken(handler, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "token %q", token)
	}
}

func TestAuthenticator_DenylistFailsOpen(t *testing.T) {
	verifier := &fakeVerifier{claims: map[string]*AccessTokenClaims{
		"good-token": {UserID: "user-1", TokenID: "jti-1"},
	}}
	denylist := &fakeDenylist{err: errors.New("redis down")}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticator(headerSource{}, verifier, denylist)(inner)

	rec := serveWithToken(handler, "good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(inner)

	// No role in context at all: 401.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated non-admin: 403.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(
		context.WithValue(req.Context(), UserRoleKey, "user"),
	)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin passes.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(
		context.WithValue(req.Context(), UserRoleKey, "admin"),
	)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
