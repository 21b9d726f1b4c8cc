package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// markdown renders blog content; the output is sanitized before use.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// htmlSanitizer allows the safe subset of HTML used by user-generated content.
var htmlSanitizer = bluemonday.UGCPolicy()

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// BlogService manages blog posts.
type BlogService struct {
	c collection[model.BlogPost]
}

// NewBlogService creates a BlogService.
func NewBlogService(s store.Store, now Clock) *BlogService {
	return &BlogService{c: newCollection[model.BlogPost](s, model.CollectionBlogPosts, now)}
}

// List returns all posts ordered by publication date, newest first.
func (s *BlogService) List(ctx context.Context) ([]model.BlogPost, error) {
	return s.c.list(ctx, store.Desc("publishedAt"))
}

// Get returns the post with the given id, or nil.
func (s *BlogService) Get(ctx context.Context, id string) (*model.BlogPost, error) {
	return s.c.get(ctx, id)
}

// View returns the post with its content rendered to HTML, or nil.
func (s *BlogService) View(ctx context.Context, id string) (*model.BlogPostView, error) {
	post, err := s.c.get(ctx, id)
	if err != nil || post == nil {
		return nil, err
	}
	html, err := RenderMarkdown(post.Content)
	if err != nil {
		return nil, err
	}
	return &model.BlogPostView{BlogPost: *post, ContentHTML: html}, nil
}

// Create stores a new post. A nil publishedAt publishes it now.
func (s *BlogService) Create(ctx context.Context, in model.BlogPostFields, publishedAt *time.Time) (*model.BlogPost, error) {
	published := s.c.now().UTC()
	if publishedAt != nil {
		published = publishedAt.UTC()
	}
	return s.c.create(ctx, encode(in), store.Document{"publishedAt": published})
}

// Update applies the non-nil fields of p.
func (s *BlogService) Update(ctx context.Context, id string, p model.BlogPostPatch) error {
	patch := encode(p)
	if p.PublishedAt != nil {
		patch["publishedAt"] = p.PublishedAt.UTC()
	}
	return s.c.update(ctx, id, patch)
}

// Delete removes a post.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

// JobListingService manages job listings.
type JobListingService struct {
	c collection[model.JobListing]
}

// NewJobListingService creates a JobListingService.
func NewJobListingService(s store.Store, now Clock) *JobListingService {
	return &JobListingService{c: newCollection[model.JobListing](s, model.CollectionJobListings, now)}
}

// ListActive returns active listings, newest first.
func (s *JobListingService) ListActive(ctx context.Context) ([]model.JobListing, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]model.JobListing, 0, len(all))
	for _, j := range all {
		if j.IsActive {
			active = append(active, j)
		}
	}
	return active, nil
}

// List returns every listing, newest first.
func (s *JobListingService) List(ctx context.Context) ([]model.JobListing, error) {
	return s.c.list(ctx, store.Desc(fieldCreatedAt))
}

// Get returns the listing with the given id, or nil.
func (s *JobListingService) Get(ctx context.Context, id string) (*model.JobListing, error) {
	return s.c.get(ctx, id)
}

// Create stores a new listing. New listings are always active.
func (s *JobListingService) Create(ctx context.Context, in model.JobListingFields) (*model.JobListing, error) {
	return s.c.create(ctx, encode(in), store.Document{"isActive": true})
}

// Update applies the non-nil fields of p.
func (s *JobListingService) Update(ctx context.Context, id string, p model.JobListingPatch) error {
	return s.c.update(ctx, id, encode(p))
}

// Delete removes a listing.
func (s *JobListingService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}
