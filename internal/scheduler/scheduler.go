// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: event log retention
// and removal of abandoned upload temp files.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
)

// Job names.
const (
	JobEventRetention = "event-retention"
	JobTempSweep      = "temp-upload-sweep"
)

// Default schedules.
const (
	DefaultRetentionSchedule = "0 3 * * *"
	DefaultSweepSchedule     = "@hourly"
)

// staleTempAge is how old an upload temp file must be before it is removed.
const staleTempAge = time.Hour

// jobTimeout bounds a single job run.
const jobTimeout = 5 * time.Minute

// Options configures the maintenance jobs.
type Options struct {
	Events *service.EventService
	// Retention is how long events are kept. Zero disables the retention job.
	Retention time.Duration
	// TempDirs are swept for abandoned upload temp files.
	TempDirs []string
	Logger   *slog.Logger
}

type job struct {
	name     string
	schedule string
	entryID  cron.EntryID
	run      func(ctx context.Context) error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name     string
	Schedule string
	NextRun  time.Time
	LastRun  time.Time
}

// Scheduler owns the cron instance and the registered jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*job
}

// New creates a scheduler with the maintenance jobs registered but not running.
func New(opts Options) (*Scheduler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}

	s := &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: logger,
		jobs:   make(map[string]*job),
	}

	if opts.Events != nil && opts.Retention > 0 {
		err := s.Add(JobEventRetention, DefaultRetentionSchedule, func(ctx context.Context) error {
			removed, err := opts.Events.DeleteOldEvents(ctx, opts.Retention)
			if removed > 0 {
				logger.Info("old events removed", "count", removed, "category", model.EventCategorySystem)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	if len(opts.TempDirs) > 0 {
		dirs := opts.TempDirs
		err := s.Add(JobTempSweep, DefaultSweepSchedule, func(context.Context) error {
			return sweepTempDirs(dirs, time.Now(), logger)
		})
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add registers fn under name on a standard five-field cron schedule or a
// descriptor such as "@hourly".
func (s *Scheduler) Add(name, schedule string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("job %q already registered", name)
	}

	j := &job{name: name, schedule: schedule, run: fn}
	id, err := s.cron.AddFunc(schedule, func() { s.execute(j) })
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

// Start runs the cron loop in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes a job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	return j.run(ctx)
}

// List returns the registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.entryID)
		out = append(out, JobInfo{
			Name:     j.name,
			Schedule: j.schedule,
			NextRun:  entry.Next,
			LastRun:  entry.Prev,
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (s *Scheduler) execute(j *job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := j.run(ctx); err != nil {
		s.logger.Error("scheduled job failed", "job", j.name, "error", err, "category", model.EventCategorySystem)
		return
	}
	s.logger.Debug("scheduled job finished", "job", j.name, "duration", time.Since(start))
}

func sweepTempDirs(dirs []string, now time.Time, logger *slog.Logger) error {
	var firstErr error
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		removed, err := service.SweepTempFiles(dir, staleTempAge, now)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("sweeping %s: %w", dir, err)
		}
		if removed > 0 {
			logger.Info("stale upload temp files removed", "dir", dir, "count", removed)
		}
	}
	return firstErr
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
