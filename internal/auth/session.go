// AngelaMos | 2026
// session.go

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelamos/inbox-api/internal/config"
)

const (
	AccessCookieName  = "inbox_access_token"
	RefreshCookieName = "inbox_refresh_token"
)

// SessionTransport binds the token pair to the browser via httpOnly cookies.
// A bearer Authorization header is honored as a fallback for non-browser
// callers; it is the reduced-security path since nothing stops a script from
// reading its own header material, whereas the cookies are httpOnly.
type SessionTransport struct {
	cookie     config.CookieConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSessionTransport(
	cookieCfg config.CookieConfig,
	jwtCfg config.JWTConfig,
) *SessionTransport {
	return &SessionTransport{
		cookie:     cookieCfg,
		accessTTL:  jwtCfg.AccessTokenExpire,
		refreshTTL: jwtCfg.RefreshTokenExpire,
	}
}

// Attach sets both token cookies with MaxAge matching each token's expiry.
func (t *SessionTransport) Attach(w http.ResponseWriter, pair *TokenPair) {
	http.SetCookie(w, t.buildCookie(
		AccessCookieName,
		pair.AccessToken,
		int(t.accessTTL.Seconds()),
	))
	http.SetCookie(w, t.buildCookie(
		RefreshCookieName,
		pair.RefreshToken,
		int(t.refreshTTL.Seconds()),
	))
}

// Clear expires both cookies. This is the only logout mechanism the client
// observes; server-side revocation is handled by the denylist.
func (t *SessionTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, t.buildCookie(AccessCookieName, "", -1))
	http.SetCookie(w, t.buildCookie(RefreshCookieName, "", -1))
}

// Extract returns the access token from the request. The cookie wins over
// the bearer header, so a cross-origin caller cannot override a same-origin
// session that was deliberately cleared.
func (t *SessionTransport) Extract(r *http.Request) string {
	if c, err := r.Cookie(AccessCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	return bearerToken(r)
}

// ExtractRefresh reads the refresh-token cookie. There is no header fallback
// for refresh tokens: non-browser callers pass them in the request body.
func (t *SessionTransport) ExtractRefresh(r *http.Request) string {
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		return c.Value
	}
	return ""
}

func (t *SessionTransport) buildCookie(
	name, value string,
	maxAge int,
) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   t.cookie.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
