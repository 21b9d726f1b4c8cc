// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the fixed-width UTC layout used for timestamps inside SQL
// documents, so that ordering by the JSON text is chronological.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLStore keeps every collection in a single documents table with a JSON body.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	newID   func() string
}

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sql.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d, newID: uuid.NewString}
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get", collection, err)
	}
	doc, err := decodeRow(id, data)
	return doc, wrapErr("get", collection, err)
}

// QueryByField implements Store.
func (s *SQLStore) QueryByField(ctx context.Context, collection, field string, value any, limit int) ([]Document, error) {
	if err := checkName(field); err != nil {
		return nil, err
	}
	arg, err := json.Marshal(normalizeValue(value))
	if err != nil {
		return nil, wrapErr("query", collection, err)
	}

	query := `SELECT id, data FROM documents WHERE collection = ? AND ` + s.dialect.equals + ` ORDER BY seq`
	args := []any{collection, "$." + field, string(arg)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	docs, err := s.queryDocs(ctx, query, args...)
	return docs, wrapErr("query", collection, err)
}

// ListAll implements Store.
func (s *SQLStore) ListAll(ctx context.Context, collection string, order Order) ([]Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = ?`
	args := []any{collection}

	if order.Field != "" {
		if err := checkName(order.Field); err != nil {
			return nil, err
		}
		dir := "ASC"
		if order.Descending {
			dir = "DESC"
		}
		query += ` ORDER BY ` + s.dialect.extract + ` ` + dir + `, seq ` + dir
		args = append(args, "$."+order.Field)
	} else {
		query += ` ORDER BY seq`
	}
	if order.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, order.Limit)
	}

	docs, err := s.queryDocs(ctx, query, args...)
	return docs, wrapErr("list", collection, err)
}

// Add implements Store.
func (s *SQLStore) Add(ctx context.Context, collection string, data Document) (string, error) {
	if err := checkName(collection); err != nil {
		return "", err
	}
	body := withoutID(data)
	if err := checkDocument(body); err != nil {
		return "", err
	}
	payload, err := marshalDocument(body)
	if err != nil {
		return "", wrapErr("add", collection, err)
	}

	id := s.newID()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, payload,
	); err != nil {
		return "", wrapErr("add", collection, err)
	}
	return id, nil
}

// Update implements Store.
func (s *SQLStore) Update(ctx context.Context, collection, id string, data Document) error {
	body := withoutID(data)
	if err := checkDocument(body); err != nil {
		return err
	}
	payload, err := marshalDocument(body)
	if err != nil {
		return wrapErr("update", collection, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET data = `+s.dialect.patch+` WHERE collection = ? AND id = ?`,
		payload, collection, id,
	)
	if err != nil {
		return wrapErr("update", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("update", collection, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	return wrapErr("delete", collection, err)
}

// Ping implements Store.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) queryDocs(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := []Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		doc, err := decodeRow(id, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func decodeRow(id, data string) (Document, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	doc := Document{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", id, err)
	}
	doc[IDField] = id
	return doc, nil
}

func marshalDocument(doc Document) (string, error) {
	b, err := json.Marshal(normalizeValue(doc))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// normalizeValue rewrites timestamps into TimeLayout, recursing into maps and slices.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(TimeLayout)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC().Format(TimeLayout)
	case Document:
		return normalizeMap(x)
	case map[string]any:
		return normalizeMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}
