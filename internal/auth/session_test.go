// AngelaMos | 2026
// session_test.go

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/inbox-api/internal/config"
)

func testSessionTransport(secure bool) *SessionTransport {
	return NewSessionTransport(
		config.CookieConfig{Domain: "", Secure: secure},
		config.JWTConfig{
			AccessTokenExpire:  45 * time.Minute,
			RefreshTokenExpire: 168 * time.Hour,
		},
	)
}

func TestSessionTransport_Attach(t *testing.T) {
	transport := testSessionTransport(true)

	rec := httptest.NewRecorder()
	transport.Attach(rec, &TokenPair{
		AccessToken:  "access-value",
		RefreshToken: "refresh-value",
	})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access := byName[AccessCookieName]
	require.NotNil(t, access)
	assert.Equal(t, "access-value", access.Value)
	assert.Equal(t, int((45 * time.Minute).Seconds()), access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, "/", access.Path)

	refresh := byName[RefreshCookieName]
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh-value", refresh.Value)
	assert.Equal(t, int((168 * time.Hour).Seconds()), refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
}

func TestSessionTransport_Clear(t *testing.T) {
	transport := testSessionTransport(false)

	rec := httptest.NewRecorder()
	transport.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	for _, c := range cookies {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestSessionTransport_Extract_CookieWinsOverBearer(t *testing.T) {
	transport := testSessionTransport(false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "from-cookie"})
	r.Header.Set("Authorization", "Bearer from-header")

	assert.Equal(t, "from-cookie", transport.Extract(r))
}

func TestSessionTransport_Extract_BearerFallback(t *testing.T) {
	transport := testSessionTransport(false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer from-header")

	assert.Equal(t, "from-header", transport.Extract(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	assert.Empty(t, transport.Extract(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, transport.Extract(r))
}

func TestSessionTransport_ExtractRefresh_CookieOnly(t *testing.T) {
	transport := testSessionTransport(false)

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "refresh-value"})
	assert.Equal(t, "refresh-value", transport.ExtractRefresh(r))

	// No header fallback for refresh tokens.
	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer refresh-value")
	assert.Empty(t, transport.ExtractRefresh(r))
}
