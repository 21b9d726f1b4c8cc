// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// SiteSettingService manages key/value site settings.
type SiteSettingService struct {
	c collection[model.SiteSetting]
}

// NewSiteSettingService creates a SiteSettingService.
func NewSiteSettingService(s store.Store, now Clock) *SiteSettingService {
	return &SiteSettingService{c: newCollection[model.SiteSetting](s, model.CollectionSiteSettings, now)}
}

// Get returns the setting stored under key, or nil.
func (s *SiteSettingService) Get(ctx context.Context, key string) (*model.SiteSetting, error) {
	return s.c.findOne(ctx, "key", key)
}

// All returns every setting as a key to value map. If a key was stored twice,
// the most recently written value wins.
func (s *SiteSettingService) All(ctx context.Context) (map[string]string, error) {
	settings, err := s.c.list(ctx, store.Order{Field: fieldUpdatedAt})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, st := range settings {
		out[st.Key] = st.Value
	}
	return out, nil
}

// Set stores value under key, creating the setting if it does not exist.
func (s *SiteSettingService) Set(ctx context.Context, key, value string) error {
	existing, err := s.c.findOne(ctx, "key", key)
	if err != nil {
		return fmt.Errorf("looking up setting %q: %w", key, err)
	}
	if existing == nil {
		_, err = s.c.create(ctx, store.Document{"key": key, "value": value})
	} else {
		err = s.c.update(ctx, existing.ID, store.Document{"value": value})
	}
	if err != nil {
		return fmt.Errorf("saving setting %q: %w", key, err)
	}
	return nil
}
