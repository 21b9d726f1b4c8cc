// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/cache"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/testutil"
)

func newTestGateway(t *testing.T, devFallback bool) (*Gateway, *JWTVerifier, *service.Services) {
	t.Helper()

	svcs, _ := testutil.TestServices(t, service.Options{OwnerOpenID: "owner-1"})
	mem := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })

	v := NewJWTVerifier(testSecret, "")
	gw := NewGateway(GatewayOptions{
		Verifier:    v,
		Users:       svcs.Users,
		Cache:       mem,
		CacheTTL:    time.Minute,
		SessionTTL:  time.Hour,
		DevFallback: devFallback,
		Logger:      testutil.TestLoggerSilent(),
	})
	return gw, v, svcs
}

func TestGateway_Anonymous(t *testing.T) {
	gw, _, _ := newTestGateway(t, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, gw.Authenticate(req))

	req.Header.Set("Authorization", "Bearer garbage")
	assert.Nil(t, gw.Authenticate(req))
}

func TestGateway_DevFallback(t *testing.T) {
	gw, _, svcs := newTestGateway(t, true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	user := gw.Authenticate(req)
	require.NotNil(t, user)
	assert.Equal(t, "local-admin", user.OpenID)
	assert.True(t, user.IsAdmin())

	users, err := svcs.Users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users, "fallback identity must not be persisted")
}

func TestGateway_BearerToken(t *testing.T) {
	gw, v, svcs := newTestGateway(t, false)

	token, err := v.Issue(model.Claims{OpenID: "u-1", Name: "Mona"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	user := gw.Authenticate(req)
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.OpenID)
	assert.Equal(t, model.RoleUser, user.Role)

	// second request is served from the identity cache
	again := gw.Authenticate(req)
	require.NotNil(t, again)
	assert.Equal(t, user.ID, again.ID)

	users, err := svcs.Users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// countingVerifier counts bearer token verifications.
type countingVerifier struct {
	*JWTVerifier
	calls int
}

func (v *countingVerifier) VerifyToken(ctx context.Context, token string) (*model.Claims, error) {
	v.calls++
	return v.JWTVerifier.VerifyToken(ctx, token)
}

func TestGateway_CachedIdentitySeesRoleChanges(t *testing.T) {
	svcs, st := testutil.TestServices(t, service.Options{})
	mem := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })

	v := &countingVerifier{JWTVerifier: NewJWTVerifier(testSecret, "")}
	gw := NewGateway(GatewayOptions{
		Verifier: v,
		Users:    svcs.Users,
		Cache:    mem,
		CacheTTL: time.Hour,
		Logger:   testutil.TestLoggerSilent(),
	})
	ctx := context.Background()

	token, err := v.Issue(model.Claims{OpenID: "staff-1"}, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	user := gw.Authenticate(req)
	require.NotNil(t, user)
	assert.False(t, user.IsAdmin())

	_, err = svcs.Users.Promote(ctx, "staff-1", "", "")
	require.NoError(t, err)

	promoted := gw.Authenticate(req)
	require.NotNil(t, promoted)
	assert.True(t, promoted.IsAdmin(), "promotion must apply before the cache entry expires")
	assert.Equal(t, 1, v.calls, "second request should be served from the identity cache")

	// A cached id whose user is gone falls back to full verification.
	require.NoError(t, st.Delete(ctx, model.CollectionUsers, user.ID))
	recreated := gw.Authenticate(req)
	require.NotNil(t, recreated)
	assert.NotEqual(t, user.ID, recreated.ID)
	assert.Equal(t, 2, v.calls)
}

func TestGateway_SessionCookie(t *testing.T) {
	gw, v, _ := newTestGateway(t, false)

	token, err := v.Issue(model.Claims{OpenID: "owner-1"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	user := gw.Authenticate(req)
	require.NotNil(t, user)
	assert.True(t, user.IsAdmin(), "owner should be admin")
}

func TestGateway_LoginAndLogout(t *testing.T) {
	gw, v, _ := newTestGateway(t, false)
	ctx := context.Background()

	idToken, err := v.Issue(model.Claims{OpenID: "u-2", Email: "u2@example.com"}, time.Minute)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	user, err := gw.Login(ctx, rec, idToken)
	require.NoError(t, err)
	assert.Equal(t, "u2@example.com", user.Email)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	session := cookies[0]
	assert.Equal(t, SessionCookieName, session.Name)
	assert.True(t, session.HttpOnly)
	assert.NotEmpty(t, session.Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(session)
	got := gw.Authenticate(req)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	rec = httptest.NewRecorder()
	gw.Logout(ctx, rec, req)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestGateway_LoginRejectsBadToken(t *testing.T) {
	gw, _, _ := newTestGateway(t, true)

	_, err := gw.Login(context.Background(), httptest.NewRecorder(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGateway_NoVerifier(t *testing.T) {
	gw := NewGateway(GatewayOptions{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	assert.Nil(t, gw.Authenticate(req))

	_, err := gw.Login(context.Background(), httptest.NewRecorder(), "x")
	assert.ErrorIs(t, err, ErrNoVerifier)
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie"})

	token, fromCookie := tokenFromRequest(req)
	assert.Equal(t, "abc", token)
	assert.False(t, fromCookie)

	req.Header.Set("Authorization", "Basic xyz")
	token, fromCookie = tokenFromRequest(req)
	assert.Equal(t, "cookie", token)
	assert.True(t, fromCookie)
}
