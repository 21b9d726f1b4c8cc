package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/cache"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

func TestPageContentService_UpsertCreatesThenMerges(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	page, err := svc.Pages.Get(ctx, model.PageHome)
	require.NoError(t, err)
	assert.Nil(t, page, "unedited page should be nil")

	require.NoError(t, svc.Pages.Upsert(ctx, model.PageHome, model.PageContentPatch{
		Headline:        ptr("Learn AI"),
		StudentsTrained: ptr(5000.0),
	}))
	require.NoError(t, svc.Pages.Upsert(ctx, model.PageHome, model.PageContentPatch{
		JobPlacementRate: ptr(92.5),
	}))

	page, err = svc.Pages.Get(ctx, model.PageHome)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, model.PageHome, page.PageKey)
	assert.Equal(t, "Learn AI", page.Headline)
	assert.InDelta(t, 5000, page.StudentsTrained, 0)
	assert.InDelta(t, 92.5, page.JobPlacementRate, 0.0001)
	assert.True(t, page.UpdatedAt.After(page.CreatedAt))

	exists, err := svc.Pages.Exists(ctx, model.PageHome)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Pages.Exists(ctx, model.PageAbout)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPageContentService_ExplicitZeroIsStored(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	require.NoError(t, svc.Pages.Upsert(ctx, model.PageAbout, model.PageContentPatch{ExpertInstructors: ptr(50.0)}))
	require.NoError(t, svc.Pages.Upsert(ctx, model.PageAbout, model.PageContentPatch{ExpertInstructors: ptr(0.0)}))

	page, err := svc.Pages.Get(ctx, model.PageAbout)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Zero(t, page.ExpertInstructors)
}

func TestPageContentService_FractionalCounts(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	require.NoError(t, svc.Pages.Upsert(ctx, model.PageHome, model.PageContentPatch{
		StudentsTrained:   ptr(1500.5),
		ExpertInstructors: ptr(12.25),
	}))

	page, err := svc.Pages.Get(ctx, model.PageHome)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.InDelta(t, 1500.5, page.StudentsTrained, 0)
	assert.InDelta(t, 12.25, page.ExpertInstructors, 0)
}

func TestPageContentService_CacheInvalidatedOnUpsert(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })

	svc := setupServices(t, Options{Cache: mem, CacheTTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, svc.Pages.Upsert(ctx, model.PageHome, model.PageContentPatch{Headline: ptr("v1")}))

	page, err := svc.Pages.Get(ctx, model.PageHome)
	require.NoError(t, err)
	assert.Equal(t, "v1", page.Headline)

	require.NoError(t, svc.Pages.Upsert(ctx, model.PageHome, model.PageContentPatch{Headline: ptr("v2")}))

	page, err = svc.Pages.Get(ctx, model.PageHome)
	require.NoError(t, err)
	assert.Equal(t, "v2", page.Headline, "stale cached page returned after upsert")
}

func TestSiteSettingService_SetAndAll(t *testing.T) {
	svc := setupServices(t, Options{})
	ctx := context.Background()

	all, err := svc.Settings.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, svc.Settings.Set(ctx, "phone", "+20 100"))
	require.NoError(t, svc.Settings.Set(ctx, "email", "info@example.com"))
	require.NoError(t, svc.Settings.Set(ctx, "phone", "+20 200"))

	all, err = svc.Settings.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"phone": "+20 200", "email": "info@example.com"}, all)

	got, err := svc.Settings.Get(ctx, "phone")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "+20 200", got.Value)

	missing, err := svc.Settings.Get(ctx, "fax")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
