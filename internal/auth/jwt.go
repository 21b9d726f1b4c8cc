// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

// LoginMethodJWT marks users signed in with a self-issued token.
const LoginMethodJWT = "jwt"

type jwtClaims struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	LoginMethod string `json:"login_method,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens signed with a shared secret. It is used
// where no Firebase project is configured.
type JWTVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTVerifier creates a JWTVerifier. An empty issuer disables the issuer check.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue signs a token for claims that expires after ttl.
func (v *JWTVerifier) Issue(c model.Claims, ttl time.Duration) (string, error) {
	if c.OpenID == "" {
		return "", errors.New("openId is required")
	}
	loginMethod := c.LoginMethod
	if loginMethod == "" {
		loginMethod = LoginMethodJWT
	}

	now := v.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Name:        c.Name,
		Email:       c.Email,
		LoginMethod: loginMethod,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.OpenID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken implements Verifier.
func (v *JWTVerifier) VerifyToken(_ context.Context, token string) (*model.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &model.Claims{
		OpenID:      claims.Subject,
		Name:        claims.Name,
		Email:       claims.Email,
		LoginMethod: claims.LoginMethod,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// VerifySession implements Verifier. Sessions are ordinary tokens.
func (v *JWTVerifier) VerifySession(ctx context.Context, session string) (*model.Claims, error) {
	return v.VerifyToken(ctx, session)
}

// NewSession implements Verifier by re-issuing the verified token with the
// session lifetime.
func (v *JWTVerifier) NewSession(ctx context.Context, idToken string, ttl time.Duration) (string, *model.Claims, error) {
	claims, err := v.VerifyToken(ctx, idToken)
	if err != nil {
		return "", nil, err
	}
	session, err := v.Issue(*claims, ttl)
	if err != nil {
		return "", nil, err
	}
	claims.ExpiresAt = v.now().UTC().Add(ttl).Truncate(time.Second)
	return session, claims, nil
}
