package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
)

func TestRedis_ScoresKeepMicrosecondOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	t0 := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo := NewRedisWishlistRepository(client)
	repo.now = func() time.Time {
		tick++
		return t0.Add(time.Duration(tick) * time.Microsecond)
	}

	owner := models.Owner{Role: "user", ID: "u1"}
	ctx := context.Background()
	for _, id := range []string{"p3", "p2", "p1"} {
		require.NoError(t, repo.Add(ctx, owner, id))
	}

	ids, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p2", "p1"}, ids)

	first, err := client.ZScore(ctx, "wishlist:user:u1", "p3").Result()
	require.NoError(t, err)
	second, err := client.ZScore(ctx, "wishlist:user:u1", "p2").Result()
	require.NoError(t, err)
	assert.Equal(t, float64(t0.Add(time.Microsecond).UnixMicro()), first)
	assert.Equal(t, 1.0, second-first)
}
