// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// NewMySQLDB opens a MySQL connection pool. The DSN is adjusted so that
// UPDATE reports matched rows rather than changed rows, which is what
// Update relies on to detect missing documents.
func NewMySQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["charset"] = "utf8mb4"

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging mysql: %w", err)
	}
	return db, nil
}

// OpenMySQL opens and migrates a MySQL-backed document store.
func OpenMySQL(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := NewMySQLDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, MySQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStore(db, MySQL), nil
}
