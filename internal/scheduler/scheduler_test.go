// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/testutil"
)

func TestNew_RegistersJobs(t *testing.T) {
	svcs, _ := testutil.TestServices(t, service.Options{})

	s, err := New(Options{
		Events:    svcs.Events,
		Retention: 24 * time.Hour,
		TempDirs:  []string{t.TempDir()},
		Logger:    testutil.TestLoggerSilent(),
	})
	require.NoError(t, err)

	jobs := s.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, JobEventRetention, jobs[0].Name)
	assert.Equal(t, DefaultRetentionSchedule, jobs[0].Schedule)
	assert.Equal(t, JobTempSweep, jobs[1].Name)
}

func TestNew_NoJobs(t *testing.T) {
	s, err := New(Options{Logger: testutil.TestLoggerSilent()})
	require.NoError(t, err)
	assert.Empty(t, s.List())
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New(Options{TempDirs: []string{t.TempDir()}, Logger: testutil.TestLoggerSilent()})
	require.NoError(t, err)

	s.Start()
	jobs := s.List()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].NextRun.IsZero())
	s.Stop()
}

func TestScheduler_Add(t *testing.T) {
	s, err := New(Options{Logger: testutil.TestLoggerSilent()})
	require.NoError(t, err)

	called := false
	require.NoError(t, s.Add("custom", "*/5 * * * *", func(context.Context) error {
		called = true
		return nil
	}))
	require.NoError(t, s.RunNow(context.Background(), "custom"))
	assert.True(t, called)

	assert.Error(t, s.Add("custom", "@daily", func(context.Context) error { return nil }), "duplicate name")
	assert.Error(t, s.Add("bad", "not a schedule", func(context.Context) error { return nil }))
	assert.Error(t, s.RunNow(context.Background(), "missing"))
}

func TestScheduler_ExecuteLogsFailure(t *testing.T) {
	s, err := New(Options{Logger: testutil.TestLoggerSilent()})
	require.NoError(t, err)

	// execute must swallow job errors.
	s.execute(&job{name: "failing", run: func(context.Context) error { return errors.New("boom") }})
}

func TestTempSweepJob(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "upload-1.tmp")
	fresh := filepath.Join(dir, "upload-2.tmp")
	kept := filepath.Join(dir, "1700000000000-42.png")
	for _, p := range []string{stale, fresh, kept} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(kept, old, old))

	s, err := New(Options{TempDirs: []string{dir, filepath.Join(dir, "missing")}, Logger: testutil.TestLoggerSilent()})
	require.NoError(t, err)
	require.NoError(t, s.RunNow(context.Background(), JobTempSweep))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, kept)
}

func TestEventRetentionJob(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	clock := now.Add(-72 * time.Hour)
	svcs, _ := testutil.TestServices(t, service.Options{Now: func() time.Time { return clock }})
	ctx := context.Background()

	require.NoError(t, svcs.Events.LogInfo(ctx, "system", "old", nil))
	clock = now
	require.NoError(t, svcs.Events.LogInfo(ctx, "system", "new", nil))

	s, err := New(Options{Events: svcs.Events, Retention: 24 * time.Hour, Logger: testutil.TestLoggerSilent()})
	require.NoError(t, err)
	require.NoError(t, s.RunNow(ctx, JobEventRetention))

	events, err := svcs.Events.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Message)
}
