// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

// testStore creates a temporary migrated SQLite store.
func testStore(t *testing.T) *SQLStore {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLStore_AddAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "courses", Document{"title": "AI 101", "priceEgp": "1000"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id == "" {
		t.Fatal("Add returned empty id")
	}

	doc, err := s.Get(ctx, "courses", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ID() != id {
		t.Errorf("ID() = %q, want %q", doc.ID(), id)
	}
	if doc["title"] != "AI 101" {
		t.Errorf("title = %v, want %q", doc["title"], "AI 101")
	}
}

func TestSQLStore_AddIgnoresIDField(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "courses", Document{"id": "chosen", "title": "x"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id == "chosen" {
		t.Error("Add should generate its own id")
	}
}

func TestSQLStore_GetMissing(t *testing.T) {
	s := testStore(t)

	_, err := s.Get(context.Background(), "courses", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing error = %v, want ErrNotFound", err)
	}
}

func TestSQLStore_UpdateMerges(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "courses", Document{"title": "Go", "level": "Beginner"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Update(ctx, "courses", id, Document{"level": "Advanced"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	doc, err := s.Get(ctx, "courses", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc["title"] != "Go" {
		t.Errorf("title = %v, want unchanged %q", doc["title"], "Go")
	}
	if doc["level"] != "Advanced" {
		t.Errorf("level = %v, want %q", doc["level"], "Advanced")
	}
}

func TestSQLStore_UpdateMissing(t *testing.T) {
	s := testStore(t)

	err := s.Update(context.Background(), "courses", "missing", Document{"title": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing error = %v, want ErrNotFound", err)
	}
}

func TestSQLStore_DeleteTwice(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "programs", Document{"title": "Data"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Delete(ctx, "programs", id); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := s.Delete(ctx, "programs", id); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if _, err := s.Get(ctx, "programs", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLStore_QueryByField(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, d := range []Document{
		{"title": "a", "isActive": true},
		{"title": "b", "isActive": false},
		{"title": "c", "isActive": true},
	} {
		if _, err := s.Add(ctx, "jobListings", d); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	active, err := s.QueryByField(ctx, "jobListings", "isActive", true, 0)
	if err != nil {
		t.Fatalf("QueryByField: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("got %d active listings, want 2", len(active))
	}

	limited, err := s.QueryByField(ctx, "jobListings", "isActive", true, 1)
	if err != nil {
		t.Fatalf("QueryByField limit: %v", err)
	}
	if len(limited) != 1 || limited[0]["title"] != "a" {
		t.Errorf("limited = %v, want first inserted match", limited)
	}

	byTitle, err := s.QueryByField(ctx, "jobListings", "title", "b", 0)
	if err != nil {
		t.Fatalf("QueryByField title: %v", err)
	}
	if len(byTitle) != 1 {
		t.Errorf("got %d matches for title, want 1", len(byTitle))
	}

	none, err := s.QueryByField(ctx, "jobListings", "title", "zzz", 0)
	if err != nil {
		t.Fatalf("QueryByField none: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("no match should return an empty slice, got %v", none)
	}
}

func TestSQLStore_ListAllOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, d := range []Document{
		{"title": "middle", "createdAt": base.Add(time.Hour)},
		{"title": "oldest", "createdAt": base},
		{"title": "newest", "createdAt": base.Add(48 * time.Hour)},
	} {
		if _, err := s.Add(ctx, "blogPosts", d); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	desc, err := s.ListAll(ctx, "blogPosts", Desc("createdAt"))
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	for i, w := range want {
		if desc[i]["title"] != w {
			t.Errorf("desc[%d] = %v, want %q", i, desc[i]["title"], w)
		}
	}

	natural, err := s.ListAll(ctx, "blogPosts", Order{})
	if err != nil {
		t.Fatalf("ListAll natural: %v", err)
	}
	if natural[0]["title"] != "middle" {
		t.Errorf("natural[0] = %v, want insertion order", natural[0]["title"])
	}
}

func TestSQLStore_ListAllLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range 10 {
		if _, err := s.Add(ctx, "eventLogs", Document{"title": fmt.Sprintf("e%d", i), "createdAt": base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	newest, err := s.ListAll(ctx, "eventLogs", Order{Field: "createdAt", Descending: true, Limit: 3})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(newest) != 3 {
		t.Fatalf("got %d documents, want 3", len(newest))
	}
	for i, want := range []string{"e9", "e8", "e7"} {
		if newest[i]["title"] != want {
			t.Errorf("newest[%d] = %v, want %q", i, newest[i]["title"], want)
		}
	}

	oldest, err := s.ListAll(ctx, "eventLogs", Order{Field: "createdAt", Limit: 2})
	if err != nil {
		t.Fatalf("ListAll ascending: %v", err)
	}
	if len(oldest) != 2 || oldest[0]["title"] != "e0" || oldest[1]["title"] != "e1" {
		t.Errorf("oldest = %v, want the two earliest documents", oldest)
	}
}

func TestSQLStore_CollectionsAreIsolated(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, "courses", Document{"title": "x"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	docs, err := s.ListAll(ctx, "programs", Order{})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("programs has %d documents, want 0", len(docs))
	}
}

func TestSQLStore_RejectsInvalidFieldNames(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.QueryByField(ctx, "courses", "title') OR 1=1 --", "x", 0); !errors.Is(err, ErrInvalidField) {
		t.Errorf("QueryByField error = %v, want ErrInvalidField", err)
	}
	if _, err := s.ListAll(ctx, "courses", Desc("a.b")); !errors.Is(err, ErrInvalidField) {
		t.Errorf("ListAll error = %v, want ErrInvalidField", err)
	}
	if _, err := s.Add(ctx, "courses", Document{"bad key": 1}); !errors.Is(err, ErrInvalidField) {
		t.Errorf("Add error = %v, want ErrInvalidField", err)
	}
}

func TestSQLStore_Ping(t *testing.T) {
	s := testStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := wrapErr("add", "courses", inner)

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("wrapErr should produce *Error, got %T", err)
	}
	if !errors.Is(err, inner) {
		t.Error("*Error should unwrap to the backend error")
	}
	if wrapErr("get", "courses", ErrNotFound) != ErrNotFound {
		t.Error("ErrNotFound should pass through unwrapped")
	}
}
