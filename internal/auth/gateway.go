// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/cache"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	// Verifier checks tokens. Nil means every caller is anonymous unless the
	// development fallback is on.
	Verifier Verifier
	Users    *service.UserService
	// Cache maps token hashes to verified user ids. Nil disables it.
	Cache    cache.Cache
	CacheTTL time.Duration
	// SessionTTL is the lifetime of sessions created at login.
	SessionTTL time.Duration
	// DevFallback resolves unauthenticated callers to model.LocalAdmin.
	DevFallback bool
	// SecureCookies sets the Secure attribute on the session cookie.
	SecureCookies bool
	Logger        *slog.Logger
}

// Gateway turns request credentials into a user.
type Gateway struct {
	verifier      Verifier
	users         *service.UserService
	cache         *cache.Typed[verifiedIdentity]
	cacheTTL      time.Duration
	sessionTTL    time.Duration
	devFallback   bool
	secureCookies bool
	logger        *slog.Logger
	now           func() time.Time
}

// NewGateway creates a Gateway.
func NewGateway(opts GatewayOptions) *Gateway {
	g := &Gateway{
		verifier:      opts.Verifier,
		users:         opts.Users,
		cacheTTL:      opts.CacheTTL,
		sessionTTL:    opts.SessionTTL,
		devFallback:   opts.DevFallback,
		secureCookies: opts.SecureCookies,
		logger:        opts.Logger,
		now:           time.Now,
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.sessionTTL <= 0 {
		g.sessionTTL = 5 * 24 * time.Hour
	}
	if opts.Cache != nil {
		g.cache = cache.NewTyped[verifiedIdentity](opts.Cache, "identity", opts.CacheTTL)
	}
	return g
}

// Authenticate resolves the caller of r. It never fails: callers whose
// credentials are missing or invalid are anonymous (nil), or the local admin
// when the development fallback is enabled.
func (g *Gateway) Authenticate(r *http.Request) *model.User {
	ctx := r.Context()

	token, fromCookie := tokenFromRequest(r)
	if token == "" || g.verifier == nil {
		return g.fallback()
	}

	key := tokenKey(token)
	if user := g.cached(ctx, key); user != nil {
		return user
	}

	var claims *model.Claims
	var err error
	if fromCookie {
		claims, err = g.verifier.VerifySession(ctx, token)
	} else {
		claims, err = g.verifier.VerifyToken(ctx, token)
	}
	if err != nil {
		g.logger.Debug("token verification failed", "cookie", fromCookie, "error", err)
		return g.fallback()
	}

	user, err := g.users.UpsertFromClaims(ctx, *claims)
	if err != nil {
		g.logger.Warn("failed to record sign-in", "open_id", claims.OpenID, "error", err)
		return g.fallback()
	}

	g.remember(ctx, key, user, claims.ExpiresAt)
	return user
}

// Login exchanges an ID token for a session, records the sign-in and sets
// the session cookie on w.
func (g *Gateway) Login(ctx context.Context, w http.ResponseWriter, idToken string) (*model.User, error) {
	if g.verifier == nil {
		return nil, ErrNoVerifier
	}

	session, claims, err := g.verifier.NewSession(ctx, idToken, g.sessionTTL)
	if err != nil {
		return nil, err
	}
	user, err := g.users.UpsertFromClaims(ctx, *claims)
	if err != nil {
		return nil, err
	}

	g.remember(ctx, tokenKey(session), user, claims.ExpiresAt)
	http.SetCookie(w, g.cookie(session, int(g.sessionTTL.Seconds())))
	return user, nil
}

// Logout clears the session cookie and forgets the cached identity.
func (g *Gateway) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" && g.cache != nil {
		_ = g.cache.Delete(ctx, tokenKey(c.Value))
	}
	http.SetCookie(w, g.cookie("", -1))
}

func (g *Gateway) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (g *Gateway) fallback() *model.User {
	if g.devFallback {
		return model.LocalAdmin()
	}
	return nil
}

// verifiedIdentity is what the identity cache keeps for a token. The user
// record itself is re-read on every hit so role changes apply at once.
type verifiedIdentity struct {
	UserID string `json:"userId"`
}

// cached returns the current user for a token verified earlier, or nil.
func (g *Gateway) cached(ctx context.Context, key string) *model.User {
	if g.cache == nil {
		return nil
	}
	ident, ok := g.cache.Get(ctx, key)
	if !ok || ident.UserID == "" {
		return nil
	}
	user, err := g.users.Get(ctx, ident.UserID)
	if err != nil {
		g.logger.Debug("identity cache lookup failed", "error", err)
		return nil
	}
	if user == nil {
		_ = g.cache.Delete(ctx, key)
	}
	return user
}

// remember caches the user id until the sooner of the cache TTL and token expiry.
func (g *Gateway) remember(ctx context.Context, key string, user *model.User, expiresAt time.Time) {
	if g.cache == nil {
		return
	}
	ttl := g.cacheTTL
	if !expiresAt.IsZero() {
		if left := expiresAt.Sub(g.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return
	}
	if err := g.cache.SetWithTTL(ctx, key, &verifiedIdentity{UserID: user.ID}, ttl); err != nil {
		g.logger.Debug("identity cache set failed", "error", err)
	}
}

// tokenFromRequest prefers the Authorization header over the session cookie.
func tokenFromRequest(r *http.Request) (token string, fromCookie bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, value, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value), false
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value, true
	}
	return "", false
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
