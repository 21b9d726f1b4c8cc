// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// DefaultEventListLimit bounds ListRecent when no limit is given.
const DefaultEventListLimit = 100

// defaultPruneBatch is how many events DeleteOldEvents reads per round.
const defaultPruneBatch = 500

// EventService provides event logging functionality.
type EventService struct {
	c          collection[model.Event]
	pruneBatch int
}

// NewEventService creates a new EventService.
func NewEventService(s store.Store, now Clock) *EventService {
	return &EventService{
		c:          newCollection[model.Event](s, model.CollectionEvents, now),
		pruneBatch: defaultPruneBatch,
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]string) error {
	doc := store.Document{
		"level":     level,
		"category":  category,
		"message":   message,
		"createdAt": s.c.now().UTC(),
	}
	if len(metadata) > 0 {
		doc["metadata"] = metadata
	}
	if _, err := s.c.store.Add(ctx, s.c.name, doc); err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, metadata map[string]string) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, metadata map[string]string) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message string, metadata map[string]string) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, metadata)
}

// ListRecent returns up to limit events, newest first.
func (s *EventService) ListRecent(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = DefaultEventListLimit
	}
	return s.c.list(ctx, store.Order{Field: fieldCreatedAt, Descending: true, Limit: limit})
}

// DeleteOldEvents removes events older than the given age and returns how
// many were removed. Events are read oldest first in batches, so only the
// expired ones and at most one batch of live ones are loaded.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.c.now().Add(-olderThan)

	removed := 0
	for {
		batch, err := s.c.list(ctx, store.Order{Field: fieldCreatedAt, Limit: s.pruneBatch})
		if err != nil {
			return removed, err
		}
		for _, e := range batch {
			if !e.CreatedAt.Before(cutoff) {
				return removed, nil
			}
			if err := s.c.delete(ctx, e.ID); err != nil {
				return removed, err
			}
			removed++
		}
		if len(batch) < s.pruneBatch {
			return removed, nil
		}
	}
}
