// Package cache keeps category trees in Redis. Keys carry a version number so
// one INCR invalidates every cached tree at once.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yashrajoria/marketplace/pkg/products"
)

const (
	TreeCachePrefix = "catalog:tree:"
	VersionKey      = "catalog:tree:version"
	DefaultTTL      = 10 * time.Minute
)

type TreeCache struct {
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewTreeCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *TreeCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TreeCache{redis: client, ttl: ttl, log: log}
}

// Get returns the cached tree for slug. Any Redis failure is a miss.
func (tc *TreeCache) Get(ctx context.Context, slug string) (*products.Tree, bool) {
	version, err := tc.version(ctx)
	if err != nil {
		return nil, false
	}

	raw, err := tc.redis.Get(ctx, tc.key(version, slug)).Bytes()
	if err != nil {
		return nil, false
	}

	var tree products.Tree
	if err := json.Unmarshal(raw, &tree); err != nil {
		tc.log.Warn("Failed to unmarshal cached category tree", zap.String("slug", slug), zap.Error(err))
		return nil, false
	}
	return &tree, true
}

// Set stores tree under the current version.
func (tc *TreeCache) Set(ctx context.Context, slug string, tree *products.Tree) error {
	version, err := tc.version(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("marshal category tree: %w", err)
	}
	return tc.redis.Set(ctx, tc.key(version, slug), raw, tc.ttl).Err()
}

// SetAsync caches tree off the request path.
func (tc *TreeCache) SetAsync(slug string, tree *products.Tree) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tc.Set(bgCtx, slug, tree); err != nil {
			tc.log.Warn("Failed to cache category tree", zap.String("slug", slug), zap.Error(err))
		}
	}()
}

// Invalidate drops every cached tree by moving to a new version. Old keys
// expire on their own.
func (tc *TreeCache) Invalidate(ctx context.Context) error {
	v, err := tc.redis.Incr(ctx, VersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate tree cache: %w", err)
	}
	tc.log.Info("Category tree cache invalidated", zap.Int64("new_version", v))
	return nil
}

func (tc *TreeCache) version(ctx context.Context) (int64, error) {
	v, err := tc.redis.Get(ctx, VersionKey).Int64()
	if err == nil {
		return v, nil
	}
	if err != redis.Nil {
		return 0, err
	}
	// first use: start at 1 unless another instance got there first
	if err := tc.redis.SetNX(ctx, VersionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	return tc.redis.Get(ctx, VersionKey).Int64()
}

func (tc *TreeCache) key(version int64, slug string) string {
	return fmt.Sprintf("%sv%d:%s", TreeCachePrefix, version, slug)
}
