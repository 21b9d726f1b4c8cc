// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

// Firebase session cookie lifetime bounds.
const (
	minSessionTTL = 5 * time.Minute
	maxSessionTTL = 14 * 24 * time.Hour
)

// FirebaseVerifier verifies Firebase ID tokens and session cookies.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier creates a verifier backed by the app's auth client.
func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// VerifyToken implements Verifier.
func (v *FirebaseVerifier) VerifyToken(ctx context.Context, token string) (*model.Claims, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claimsFromToken(tok), nil
}

// VerifySession implements Verifier.
func (v *FirebaseVerifier) VerifySession(ctx context.Context, session string) (*model.Claims, error) {
	tok, err := v.client.VerifySessionCookie(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claimsFromToken(tok), nil
}

// NewSession implements Verifier. The lifetime is clamped to the range
// Firebase accepts.
func (v *FirebaseVerifier) NewSession(ctx context.Context, idToken string, ttl time.Duration) (string, *model.Claims, error) {
	claims, err := v.VerifyToken(ctx, idToken)
	if err != nil {
		return "", nil, err
	}

	ttl = min(max(ttl, minSessionTTL), maxSessionTTL)
	cookie, err := v.client.SessionCookie(ctx, idToken, ttl)
	if err != nil {
		return "", nil, fmt.Errorf("creating session cookie: %w", err)
	}
	claims.ExpiresAt = time.Now().Add(ttl)
	return cookie, claims, nil
}

func claimsFromToken(tok *fbauth.Token) *model.Claims {
	c := &model.Claims{
		OpenID:      tok.UID,
		LoginMethod: tok.Firebase.SignInProvider,
		ExpiresAt:   time.Unix(tok.Expires, 0),
	}
	if name, ok := tok.Claims["name"].(string); ok {
		c.Name = name
	}
	if email, ok := tok.Claims["email"].(string); ok {
		c.Email = email
	}
	return c
}
