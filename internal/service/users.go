// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// UserService manages users keyed by their external openId.
type UserService struct {
	c           collection[model.User]
	ownerOpenID string
}

// NewUserService creates a UserService. The owner openId, when set, is
// always stored with the admin role.
func NewUserService(s store.Store, ownerOpenID string, now Clock) *UserService {
	return &UserService{
		c:           newCollection[model.User](s, model.CollectionUsers, now),
		ownerOpenID: ownerOpenID,
	}
}

// Get returns the user with the given id, or nil.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.c.get(ctx, id)
}

// GetByOpenID returns the user with the given openId, or nil.
func (s *UserService) GetByOpenID(ctx context.Context, openID string) (*model.User, error) {
	return s.c.findOne(ctx, "openId", openID)
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.c.list(ctx, store.Desc(fieldCreatedAt))
}

// UpsertFromClaims records a successful sign-in. New users get the user role
// unless they are the owner; existing users keep their role, except that the
// owner is always promoted to admin.
func (s *UserService) UpsertFromClaims(ctx context.Context, claims model.Claims) (*model.User, error) {
	if claims.OpenID == "" {
		return nil, errors.New("user openId is required")
	}

	existing, err := s.GetByOpenID(ctx, claims.OpenID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	now := s.c.now().UTC()

	if existing == nil {
		role := model.RoleUser
		if s.isOwner(claims.OpenID) {
			role = model.RoleAdmin
		}
		user, err := s.c.create(ctx, store.Document{
			"openId":       claims.OpenID,
			"name":         claims.Name,
			"email":        claims.Email,
			"loginMethod":  claims.LoginMethod,
			"role":         role,
			"lastSignedIn": now,
		})
		if err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		slog.Info("user created", "open_id", user.OpenID, "role", user.Role)
		return user, nil
	}

	patch := store.Document{"lastSignedIn": now}
	if claims.Name != "" {
		patch["name"] = claims.Name
	}
	if claims.Email != "" {
		patch["email"] = claims.Email
	}
	if claims.LoginMethod != "" {
		patch["loginMethod"] = claims.LoginMethod
	}
	if s.isOwner(claims.OpenID) && existing.Role != model.RoleAdmin {
		patch["role"] = model.RoleAdmin
	}
	if err := s.c.update(ctx, existing.ID, patch); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return s.c.get(ctx, existing.ID)
}

// Promote makes the user with openId an admin, creating the user if needed.
func (s *UserService) Promote(ctx context.Context, openID, name, email string) (*model.User, error) {
	existing, err := s.GetByOpenID(ctx, openID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if existing == nil {
		return s.c.create(ctx, store.Document{
			"openId":       openID,
			"name":         name,
			"email":        email,
			"loginMethod":  "",
			"role":         model.RoleAdmin,
			"lastSignedIn": s.c.now().UTC(),
		})
	}
	if err := s.c.update(ctx, existing.ID, store.Document{"role": model.RoleAdmin}); err != nil {
		return nil, fmt.Errorf("promoting user: %w", err)
	}
	return s.c.get(ctx, existing.ID)
}

func (s *UserService) isOwner(openID string) bool {
	return s.ownerOpenID != "" && openID == s.ownerOpenID
}
