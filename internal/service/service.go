// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service is the entity access layer. Each service shapes one kind
// of document, stamps timestamps and talks to the document store.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/cache"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// Timestamp fields maintained by every service.
const (
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
)

// Clock returns the current time.
type Clock func() time.Time

// Options configures the services built by New.
type Options struct {
	// OwnerOpenID is promoted to admin whenever that identity signs in.
	OwnerOpenID string
	// Cache backs read-through caching of page content. Nil disables it.
	Cache    cache.Cache
	CacheTTL time.Duration
	// Now overrides the clock, for tests.
	Now Clock
}

// Services bundles every entity service over one store.
type Services struct {
	Users        *UserService
	Pages        *PageContentService
	Settings     *SiteSettingService
	Courses      *CourseService
	Programs     *ProgramService
	Blog         *BlogService
	Jobs         *JobListingService
	Applications *ApplicationService
	Messages     *MessageService
	Events       *EventService
}

// New builds all services over s.
func New(s store.Store, opts Options) *Services {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Services{
		Users:        NewUserService(s, opts.OwnerOpenID, now),
		Pages:        NewPageContentService(s, opts.Cache, opts.CacheTTL, now),
		Settings:     NewSiteSettingService(s, now),
		Courses:      NewCourseService(s, now),
		Programs:     NewProgramService(s, now),
		Blog:         NewBlogService(s, now),
		Jobs:         NewJobListingService(s, now),
		Applications: NewApplicationService(s, now),
		Messages:     NewMessageService(s, now),
		Events:       NewEventService(s, now),
	}
}

// collection implements the uniform CRUD shape shared by every entity.
type collection[T any] struct {
	store store.Store
	name  string
	now   Clock
}

func newCollection[T any](s store.Store, name string, now Clock) collection[T] {
	if now == nil {
		now = time.Now
	}
	return collection[T]{store: s, name: name, now: now}
}

// get returns nil without error when the document does not exist.
func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode[T](doc)
}

// findOne returns the first document whose field equals value, or nil.
func (c collection[T]) findOne(ctx context.Context, field string, value any) (*T, error) {
	docs, err := c.store.QueryByField(ctx, c.name, field, value, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decode[T](docs[0])
}

func (c collection[T]) list(ctx context.Context, order store.Order) ([]T, error) {
	docs, err := c.store.ListAll(ctx, c.name, order)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](docs)
}

func (c collection[T]) query(ctx context.Context, field string, value any) ([]T, error) {
	docs, err := c.store.QueryByField(ctx, c.name, field, value, 0)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](docs)
}

// create stamps both timestamps, stores the merged fields and returns the
// stored record with its new id.
func (c collection[T]) create(ctx context.Context, fields ...store.Document) (*T, error) {
	now := c.now().UTC()
	doc := store.Merge(store.Document{}, fields...)
	doc[fieldCreatedAt] = now
	doc[fieldUpdatedAt] = now

	id, err := c.store.Add(ctx, c.name, doc)
	if err != nil {
		return nil, err
	}
	doc[store.IDField] = id
	return decode[T](doc)
}

// update merges patch into the document and refreshes updatedAt.
func (c collection[T]) update(ctx context.Context, id string, patch store.Document) error {
	data := store.Merge(patch, store.Document{fieldUpdatedAt: c.now().UTC()})
	return c.store.Update(ctx, c.name, id, data)
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

func decode[T any](doc store.Document) (*T, error) {
	var v T
	if err := store.Decode(doc, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeAll[T any](docs []store.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := decode[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func encode(v any) store.Document {
	doc, err := store.Encode(v)
	if err != nil {
		// Only reachable with a non-struct argument, which is a programming error.
		panic(err)
	}
	return doc
}
