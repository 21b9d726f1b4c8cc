// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	firebase "firebase.google.com/go/v4"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/auth"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/cache"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/config"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/firebaseapp"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/logging"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/scheduler"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    store.Store
	cache    cache.Cache
	svc      *service.Services
	firebase *firebase.App
	closers  []io.Closer
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	textHandler, logCloser := logging.NewTextHandler(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	if cfg.StoreDriver == config.DriverFirestore || cfg.ResolvedAuthProvider() == config.AuthFirebase {
		fb, err := firebaseapp.New(ctx, firebaseapp.Credentials{
			ProjectID:       cfg.FirebaseProjectID,
			ClientEmail:     cfg.FirebaseClientEmail,
			PrivateKey:      cfg.FirebasePrivateKey,
			CredentialsFile: cfg.FirebaseCredentialsFile,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.firebase = fb
	}

	if cfg.StoreDriver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			a.Close()
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	logger.Info("opening document store", "driver", cfg.StoreDriver)
	s, err := store.Open(ctx, store.Options{
		Driver:        cfg.StoreDriver,
		SQLitePath:    cfg.DBPath,
		MySQLDSN:      cfg.MySQLDSN,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		Firebase:      a.firebase,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a.store = s
	a.closers = append(a.closers, s)

	a.cache = a.openCache(ctx)
	a.closers = append(a.closers, a.cache)

	a.svc = service.New(s, service.Options{
		OwnerOpenID: cfg.OwnerOpenID,
		Cache:       a.cache,
		CacheTTL:    time.Duration(cfg.CacheTTL) * time.Second,
	})

	// Upgrade logger to also write WARN and ERROR logs to the event log.
	a.logger = slog.New(logging.NewEventLogHandler(textHandler, a.svc.Events))
	slog.SetDefault(a.logger)
	a.logger.Info("event log integration enabled", "min_level", "warn")

	return a, nil
}

// openCache connects to Redis when configured, falling back to memory.
func (a *app) openCache(ctx context.Context) cache.Cache {
	cfg := cache.Config{
		RedisURL:   a.cfg.RedisURL,
		Prefix:     a.cfg.CachePrefix,
		DefaultTTL: time.Duration(a.cfg.CacheTTL) * time.Second,
		MaxSize:    a.cfg.CacheMaxSize,
	}
	c, err := cache.New(ctx, cfg)
	if err == nil {
		backend := "memory"
		if a.cfg.UseRedisCache() {
			backend = "redis"
		}
		a.logger.Info("cache initialized", "backend", backend)
		return c
	}

	a.logger.Warn("cache initialized", "backend", "memory", "note", "Redis unavailable, using fallback", "error", err)
	cfg.RedisURL = ""
	c, _ = cache.New(ctx, cfg)
	return c
}

// verifier returns the configured identity provider, or nil when sign-in
// is disabled.
func (a *app) verifier(ctx context.Context) (auth.Verifier, error) {
	switch a.cfg.ResolvedAuthProvider() {
	case config.AuthFirebase:
		v, err := auth.NewFirebaseVerifier(ctx, a.firebase)
		if err != nil {
			return nil, err
		}
		return v, nil
	case config.AuthJWT:
		return auth.NewJWTVerifier(a.cfg.JWTSecret, a.cfg.JWTIssuer), nil
	default:
		return nil, nil
	}
}

// mediaStorage returns the upload backend and the directories where its
// temp files land.
func (a *app) mediaStorage() (service.MediaStorage, []string, error) {
	if a.cfg.UploadMode == config.UploadInline {
		s := service.NewInlineStorage()
		return s, []string{s.TempDir}, nil
	}
	s, err := service.NewDiskStorage(a.cfg.UploadsDir, "/uploads")
	if err != nil {
		return nil, nil, err
	}
	return s, []string{s.Dir}, nil
}

func (a *app) scheduler(tempDirs []string) (*scheduler.Scheduler, error) {
	s, err := scheduler.New(scheduler.Options{
		Events:    a.svc.Events,
		Retention: time.Duration(a.cfg.EventRetentionDays) * 24 * time.Hour,
		TempDirs:  tempDirs,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	return s, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("error closing resource", "error", err)
		}
	}
}
