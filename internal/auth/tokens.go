// AngelaMos | 2026
// tokens.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/angelamos/inbox-api/internal/config"
	"github.com/angelamos/inbox-api/internal/core"
	"github.com/angelamos/inbox-api/internal/middleware"
)

// TokenAuthority mints and verifies the access/refresh token pair. The two
// token kinds are signed with distinct secrets, so a refresh token can never
// verify as an access token or vice versa, independent of the "type" claim.
// It holds no mutable state.
type TokenAuthority struct {
	accessKey  jwk.Key
	refreshKey jwk.Key
	config     config.JWTConfig
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewTokenAuthority(cfg config.JWTConfig) (*TokenAuthority, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("token authority: signing secrets unconfigured")
	}

	accessKey, err := jwk.Import([]byte(cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("import access secret: %w", err)
	}

	refreshKey, err := jwk.Import([]byte(cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("import refresh secret: %w", err)
	}

	return &TokenAuthority{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		config:     cfg,
	}, nil
}

// Issue mints a fresh token pair for the given principal.
func (a *TokenAuthority) Issue(
	userID, email, role string,
) (*TokenPair, error) {
	accessToken, err := a.mint(
		userID,
		email,
		role,
		"access",
		a.config.AccessTokenExpire,
		a.accessKey,
	)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	refreshToken, err := a.mint(
		userID,
		email,
		role,
		"refresh",
		a.config.RefreshTokenExpire,
		a.refreshKey,
	)
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *TokenAuthority) mint(
	userID, email, role, tokenType string,
	ttl time.Duration,
	key jwk.Key,
) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(a.config.Issuer).
		Audience([]string{a.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		NotBefore(now).
		Claim("email", email).
		Claim("role", role).
		Claim("type", tokenType).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// VerifyAccessToken validates signature, expiry, issuer, audience, and the
// "access" type claim. Every failure mode collapses into ErrTokenInvalid so
// callers cannot tell an expired token from a forged one.
func (a *TokenAuthority) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	return a.verify(tokenString, "access", a.accessKey)
}

// VerifyRefreshToken is the refresh-secret counterpart of VerifyAccessToken.
func (a *TokenAuthority) VerifyRefreshToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	return a.verify(tokenString, "refresh", a.refreshKey)
}

func (a *TokenAuthority) verify(
	tokenString, wantType string,
	key jwk.Key,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), key),
		jwt.WithValidate(true),
		jwt.WithIssuer(a.config.Issuer),
		jwt.WithAudience(a.config.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != wantType {
		return nil, fmt.Errorf(
			"verify token: wrong token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if err := token.Get("email", &email); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	tokenID, _ := token.JwtID()

	var expiresAt time.Time
	if exp, ok := token.Expiration(); ok {
		expiresAt = exp
	}

	return &middleware.AccessTokenClaims{
		UserID:    subject,
		Email:     email,
		Role:      role,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}
