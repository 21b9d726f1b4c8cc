// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store is the document store adapter. Entities are kept as flat
// documents in named collections; the backends (SQLite, MySQL, MongoDB and
// Firestore) differ only in how they persist a document.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// IDField is the reserved document key that carries the document id on reads.
// It is never persisted as part of the document body.
const IDField = "id"

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("store: document not found")

// ErrInvalidField is returned when a field or collection name is not a plain identifier.
var ErrInvalidField = errors.New("store: invalid field name")

// Document is a flat record keyed by field name.
type Document map[string]any

// ID returns the document id, or an empty string for unsaved documents.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// Order selects the sort applied by ListAll. The zero value keeps insertion order.
type Order struct {
	Field      string
	Descending bool
	// Limit caps the number of documents returned. Zero or less means no cap.
	Limit int
}

// Desc orders by field, newest (largest) first.
func Desc(field string) Order {
	return Order{Field: field, Descending: true}
}

// Store is implemented by every document backend.
type Store interface {
	// Get returns the document with the given id or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// QueryByField returns documents whose field equals value. A limit of
	// zero or less returns every match.
	QueryByField(ctx context.Context, collection, field string, value any, limit int) ([]Document, error)
	// ListAll returns the documents of the collection in the given order,
	// at most order.Limit of them when it is positive.
	ListAll(ctx context.Context, collection string, order Order) ([]Document, error)
	// Add inserts a document and returns its generated id.
	Add(ctx context.Context, collection string, data Document) (string, error)
	// Update merges data into an existing document or returns ErrNotFound.
	Update(ctx context.Context, collection, id string, data Document) error
	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend connection.
	Close() error
}

// Error wraps a backend failure with the operation and collection it happened in.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op, collection string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return &Error{Op: op, Collection: collection, Err: err}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkName(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}

// withoutID returns a copy of data that does not contain the id key.
func withoutID(data Document) Document {
	out := make(Document, len(data))
	for k, v := range data {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

func checkDocument(data Document) error {
	for k := range data {
		if err := checkName(k); err != nil {
			return err
		}
	}
	return nil
}
