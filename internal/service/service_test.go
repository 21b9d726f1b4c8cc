// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// stepClock advances one second on every call so creation order is stable.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func setupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "service-test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func setupServices(t *testing.T, opts Options) *Services {
	t.Helper()

	if opts.Now == nil {
		opts.Now = newStepClock().Now
	}
	return New(setupTestStore(t), opts)
}

func ptr[T any](v T) *T {
	return &v
}
