// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the entities stored in the document store and the
// input shapes used to create and update them.
package model

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CollectionUsers holds User documents.
const CollectionUsers = "users"

// User is an authenticated principal, keyed by the external identity's openId.
type User struct {
	ID           string    `json:"id"`
	OpenID       string    `json:"openId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	LoginMethod  string    `json:"loginMethod"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// LocalAdmin is the fixed identity used by the development auth fallback.
// It is never persisted.
func LocalAdmin() *User {
	return &User{
		ID:          "local-admin",
		OpenID:      "local-admin",
		Name:        "Local Admin",
		Email:       "admin@local.dev",
		LoginMethod: "local",
		Role:        RoleAdmin,
	}
}

// Claims is the verified identity returned by a token verifier.
type Claims struct {
	OpenID      string
	Name        string
	Email       string
	LoginMethod string
	ExpiresAt   time.Time
}
