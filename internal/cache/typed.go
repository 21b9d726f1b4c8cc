// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Typed stores JSON-encoded values of one type under a key namespace.
type Typed[T any] struct {
	cache     Cache
	namespace string
	ttl       time.Duration
}

// NewTyped wraps c. Keys are stored as namespace + ":" + key.
func NewTyped[T any](c Cache, namespace string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: c, namespace: namespace, ttl: ttl}
}

func (t *Typed[T]) key(k string) string {
	return t.namespace + ":" + k
}

// Get returns the cached value and true, or false on a miss or decode failure.
func (t *Typed[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := t.cache.Get(ctx, t.key(key))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.Debug("cache get failed", "namespace", t.namespace, "error", err)
		}
		return nil, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set stores v with the default TTL.
func (t *Typed[T]) Set(ctx context.Context, key string, v *T) error {
	return t.SetWithTTL(ctx, key, v, t.ttl)
}

// SetWithTTL stores v with a specific TTL.
func (t *Typed[T]) SetWithTTL(ctx context.Context, key string, v *T, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, t.key(key), data, ttl)
}

// Delete removes key.
func (t *Typed[T]) Delete(ctx context.Context, key string) error {
	return t.cache.Delete(ctx, t.key(key))
}

// GetOrLoad returns the cached value or calls load and caches a non-nil result.
// Cache write failures are logged and otherwise ignored.
func (t *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (*T, error)) (*T, error) {
	if v, ok := t.Get(ctx, key); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil || v == nil {
		return v, err
	}
	if err := t.Set(ctx, key, v); err != nil {
		slog.Debug("cache set failed", "namespace", t.namespace, "error", err)
	}
	return v, nil
}
