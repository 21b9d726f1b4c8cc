package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveWithHeaders(cfg SecurityHeadersConfig, path string) *httptest.ResponseRecorder {
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestSecurityHeadersProduction(t *testing.T) {
	rr := serveWithHeaders(DefaultSecurityHeadersConfig(false), "/")
	h := rr.Header()

	assert.Equal(t, "max-age=31536000; includeSubDomains", h.Get("Strict-Transport-Security"))
	assert.Equal(t, "SAMEORIGIN", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Contains(t, h.Get("Permissions-Policy"), "camera=()")
	assert.Empty(t, h.Get("X-XSS-Protection"))

	csp := h.Get("Content-Security-Policy")
	assert.True(t, strings.HasPrefix(csp, "default-src 'self'; script-src"))
	assert.Contains(t, csp, "https://apis.google.com")
	assert.Contains(t, csp, "object-src 'none'")
	assert.NotContains(t, csp, "'unsafe-eval'")
}

func TestSecurityHeadersDevelopment(t *testing.T) {
	rr := serveWithHeaders(DefaultSecurityHeadersConfig(true), "/")

	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	csp := rr.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'unsafe-eval'")
	assert.Contains(t, csp, "ws:")
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}

	rr := serveWithHeaders(cfg, "/uploads/1-2.png")
	assert.Empty(t, rr.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rr.Header().Get("X-Content-Type-Options"))

	rr = serveWithHeaders(cfg, "/about")
	assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeadersEmptyConfig(t *testing.T) {
	rr := serveWithHeaders(SecurityHeadersConfig{}, "/")

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rr.Header().Get("Content-Security-Policy"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, rr.Header().Get("X-Frame-Options"))
}
