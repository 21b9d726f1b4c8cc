// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for identity loading,
// authorization, rate limiting and response hardening.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/auth"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

// Authenticator resolves the caller of a request. A nil user is anonymous.
type Authenticator interface {
	Authenticate(r *http.Request) *model.User
}

// LoadIdentity stores the caller's identity in the request context. It never
// rejects a request; routes that need a role check it themselves.
func LoadIdentity(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := a.Authenticate(r)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	return auth.UserFromContext(r.Context())
}

// RequireAdmin rejects callers without the admin role with a JSON 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if err := auth.RequireAdmin(user); err != nil {
			// Anonymous denials are routine and stay out of the event log.
			level, email := slog.LevelInfo, ""
			if user != nil {
				level, email = slog.LevelWarn, user.Email
			}
			slog.Log(r.Context(), level, "access denied",
				"reason", "admin role required",
				"email", email,
				"path", r.URL.Path,
				"ip", ClientIP(r),
			)
			WriteJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
