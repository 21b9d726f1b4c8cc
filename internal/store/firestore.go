// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps each collection in a Firestore collection of the same name.
type FirestoreStore struct {
	client *firestore.Client
}

// OpenFirestore creates a Firestore client from an initialized Firebase app.
func OpenFirestore(ctx context.Context, app *firebase.App) (*FirestoreStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Get implements Store.
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get", collection, err)
	}
	return fromSnapshot(snap), nil
}

// QueryByField implements Store.
func (s *FirestoreStore) QueryByField(ctx context.Context, collection, field string, value any, limit int) ([]Document, error) {
	if err := checkName(field); err != nil {
		return nil, err
	}
	q := s.client.Collection(collection).Where(field, "==", value)
	if limit > 0 {
		q = q.Limit(limit)
	}
	docs, err := collect(ctx, q)
	return docs, wrapErr("query", collection, err)
}

// ListAll implements Store.
func (s *FirestoreStore) ListAll(ctx context.Context, collection string, order Order) ([]Document, error) {
	q := s.client.Collection(collection).Query
	if order.Field != "" {
		if err := checkName(order.Field); err != nil {
			return nil, err
		}
		dir := firestore.Asc
		if order.Descending {
			dir = firestore.Desc
		}
		q = q.OrderBy(order.Field, dir)
	}
	if order.Limit > 0 {
		q = q.Limit(order.Limit)
	}
	docs, err := collect(ctx, q)
	return docs, wrapErr("list", collection, err)
}

// Add implements Store.
func (s *FirestoreStore) Add(ctx context.Context, collection string, data Document) (string, error) {
	body := withoutID(data)
	if err := checkDocument(body); err != nil {
		return "", err
	}
	ref, _, err := s.client.Collection(collection).Add(ctx, map[string]any(body))
	if err != nil {
		return "", wrapErr("add", collection, err)
	}
	return ref.ID, nil
}

// Update implements Store. Firestore's Update fails with NotFound on a missing
// document, unlike Set with merge.
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data Document) error {
	body := withoutID(data)
	if err := checkDocument(body); err != nil {
		return err
	}
	if len(body) == 0 {
		_, err := s.Get(ctx, collection, id)
		return err
	}

	updates := make([]firestore.Update, 0, len(body))
	for k, v := range body {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return wrapErr("update", collection, err)
}

// Delete implements Store.
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return wrapErr("delete", collection, err)
}

// Ping implements Store by listing at most one root collection.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}

// Close implements Store.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func collect(ctx context.Context, q firestore.Query) ([]Document, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, fromSnapshot(snap))
	}
	return docs, nil
}

func fromSnapshot(snap *firestore.DocumentSnapshot) Document {
	doc := Document(snap.Data())
	if doc == nil {
		doc = Document{}
	}
	doc[IDField] = snap.Ref.ID
	return doc
}
