// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/cache"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// PageContentService manages page copy addressed by pageKey.
type PageContentService struct {
	c     collection[model.PageContent]
	cache *cache.Typed[model.PageContent]
}

// NewPageContentService creates a PageContentService. A nil cache disables
// read-through caching.
func NewPageContentService(s store.Store, c cache.Cache, ttl time.Duration, now Clock) *PageContentService {
	svc := &PageContentService{c: newCollection[model.PageContent](s, model.CollectionPageContent, now)}
	if c != nil {
		svc.cache = cache.NewTyped[model.PageContent](c, "page", ttl)
	}
	return svc
}

// Get returns the content for pageKey, or nil when the page was never edited.
func (s *PageContentService) Get(ctx context.Context, pageKey string) (*model.PageContent, error) {
	load := func(ctx context.Context) (*model.PageContent, error) {
		return s.c.findOne(ctx, "pageKey", pageKey)
	}
	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.GetOrLoad(ctx, pageKey, load)
}

// Upsert applies patch to the page, creating the page document on first use.
// The lookup and the write are separate store calls; concurrent first edits of
// the same page can create two documents.
func (s *PageContentService) Upsert(ctx context.Context, pageKey string, patch model.PageContentPatch) error {
	existing, err := s.c.findOne(ctx, "pageKey", pageKey)
	if err != nil {
		return fmt.Errorf("looking up page %q: %w", pageKey, err)
	}

	fields := encode(patch)
	if existing == nil {
		_, err = s.c.create(ctx, store.Document{"pageKey": pageKey}, fields)
	} else {
		err = s.c.update(ctx, existing.ID, fields)
	}
	if err != nil {
		return fmt.Errorf("saving page %q: %w", pageKey, err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, pageKey)
	}
	return nil
}

// Exists reports whether content has been stored for pageKey.
func (s *PageContentService) Exists(ctx context.Context, pageKey string) (bool, error) {
	page, err := s.c.findOne(ctx, "pageKey", pageKey)
	return page != nil, err
}
