package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/marketplace/pkg/catalog"
	"github.com/yashrajoria/marketplace/pkg/products"
	"github.com/yashrajoria/marketplace/services/catalog-service/cache"
)

func setupCache(t *testing.T) (*cache.TreeCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewTreeCache(client, 0, nil), mr
}

func sampleTree() *products.Tree {
	return &products.Tree{
		Category:      products.Category{ID: "c1", Name: "Packaging", Slug: "packaging"},
		Subcategories: []products.Category{{ID: "c2", Name: "Drums", Slug: "drums"}},
		Products:      []catalog.Product{{ID: "p1", Name: "Plastic Drum", Pricing: catalog.Pricing{BasePrice: catalog.Float(45)}}},
	}
}

func TestTreeCache_RoundTrip(t *testing.T) {
	tc, mr := setupCache(t)
	ctx := context.Background()

	_, ok := tc.Get(ctx, "packaging")
	assert.False(t, ok)

	require.NoError(t, tc.Set(ctx, "packaging", sampleTree()))

	got, ok := tc.Get(ctx, "packaging")
	require.True(t, ok)
	assert.Equal(t, sampleTree(), got)
	assert.True(t, mr.Exists("catalog:tree:v1:packaging"))
	assert.Greater(t, mr.TTL("catalog:tree:v1:packaging").Seconds(), 0.0)
}

func TestTreeCache_InvalidateDropsEverySlug(t *testing.T) {
	tc, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, tc.Set(ctx, "packaging", sampleTree()))
	require.NoError(t, tc.Set(ctx, "metals", sampleTree()))
	require.NoError(t, tc.Invalidate(ctx))

	_, ok := tc.Get(ctx, "packaging")
	assert.False(t, ok)
	_, ok = tc.Get(ctx, "metals")
	assert.False(t, ok)
}

func TestTreeCache_CorruptEntryIsAMiss(t *testing.T) {
	tc, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, tc.Set(ctx, "packaging", sampleTree()))
	require.NoError(t, mr.Set("catalog:tree:v1:packaging", "{not json"))

	_, ok := tc.Get(ctx, "packaging")
	assert.False(t, ok)
}

func TestTreeCache_RedisDownIsAMiss(t *testing.T) {
	tc, mr := setupCache(t)
	mr.SetError("LOADING")

	_, ok := tc.Get(context.Background(), "packaging")
	assert.False(t, ok)
	assert.Error(t, tc.Invalidate(context.Background()))
}
