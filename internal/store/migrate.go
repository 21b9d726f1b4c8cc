// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrations embed.FS

// Dialect describes the SQL flavour of a document table.
type Dialect struct {
	// Name is the goose dialect name.
	Name string
	// Dir is the migrations directory inside the embedded filesystem.
	Dir string

	// extract returns the expression selecting a JSON path from the data column.
	extract string
	// equals compares a JSON path of the data column with a JSON-encoded parameter.
	equals string
	// patch merges a JSON-encoded parameter into the data column.
	patch string
}

// SQLite is the dialect used with modernc.org/sqlite.
var SQLite = Dialect{
	Name:    "sqlite3",
	Dir:     "migrations/sqlite",
	extract: "json_extract(data, ?)",
	equals:  "json_extract(data, ?) = json_extract(?, '$')",
	patch:   "json_patch(data, ?)",
}

// MySQL is the dialect used with go-sql-driver/mysql.
var MySQL = Dialect{
	Name:    "mysql",
	Dir:     "migrations/mysql",
	extract: "JSON_EXTRACT(data, ?)",
	equals:  "JSON_EXTRACT(data, ?) = CAST(? AS JSON)",
	patch:   "JSON_MERGE_PATCH(data, ?)",
}

// Migrate runs all pending migrations for the dialect.
func Migrate(db *sql.DB, d Dialect) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(d.Name); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, d.Dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
