// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth resolves the caller's identity from a bearer token or the
// session cookie and enforces the admin role.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

// Errors returned by verifiers and role checks.
var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("admin access required")
	ErrNoVerifier   = errors.New("authentication is not configured")
)

// Verifier checks tokens issued by an identity provider.
type Verifier interface {
	// VerifyToken checks a bearer ID token.
	VerifyToken(ctx context.Context, token string) (*model.Claims, error)
	// VerifySession checks the value of the session cookie.
	VerifySession(ctx context.Context, session string) (*model.Claims, error)
	// NewSession exchanges a verified ID token for a session cookie value.
	NewSession(ctx context.Context, idToken string, ttl time.Duration) (string, *model.Claims, error)
}

type contextKey struct{}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the identity stored by WithUser, or nil for
// anonymous callers.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(contextKey{}).(*model.User)
	return user
}

// RequireAdmin returns ErrForbidden unless user has the admin role.
func RequireAdmin(user *model.User) error {
	if !user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
