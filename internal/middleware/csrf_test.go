package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCSRFKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	dev := DefaultCSRFConfig(testCSRFKey, true)
	assert.Len(t, dev.AuthKey, 32)
	assert.ElementsMatch(t, []string{"localhost:5173", "127.0.0.1:5173", "localhost:3000"}, dev.TrustedOrigins)
	for _, origin := range dev.TrustedOrigins {
		assert.False(t, strings.HasPrefix(origin, "http"), "origin %q should be host:port", origin)
	}

	prod := DefaultCSRFConfig(testCSRFKey, false)
	assert.Empty(t, prod.TrustedOrigins)
}

func csrfTestHandler() http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return SkipCSRFForBearer(CSRF(DefaultCSRFConfig(testCSRFKey, false))(next))
}

func TestCSRFRejectsCrossSitePost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/trpc/admin.createCourse", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()

	csrfTestHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Cross-origin request rejected", body.Error)
}

func TestCSRFAllowsSameOriginPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/trpc/admin.createCourse", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rr := httptest.NewRecorder()

	csrfTestHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCSRFAllowsSafeMethods(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/trpc/courses.list", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()

	csrfTestHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestSkipCSRFForBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/trpc/admin.createCourse", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://tools.example")
	req.Header.Set("Authorization", "Bearer abc")
	rr := httptest.NewRecorder()

	csrfTestHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}
