package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
)

// RedisWishlistRepository keeps one sorted set per owner, scored by the time
// a product was first added.
type RedisWishlistRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisWishlistRepository(client *redis.Client) *RedisWishlistRepository {
	return &RedisWishlistRepository{client: client, now: time.Now}
}

func (r *RedisWishlistRepository) key(owner models.Owner) string {
	return fmt.Sprintf("wishlist:%s:%s", owner.Role, owner.ID)
}

// Add uses ZADD NX so re-adding keeps the original position. Scores are
// microseconds, which a float64 holds exactly.
func (r *RedisWishlistRepository) Add(ctx context.Context, owner models.Owner, productID string) error {
	return r.client.ZAddNX(ctx, r.key(owner), redis.Z{
		Score:  float64(r.now().UnixMicro()),
		Member: productID,
	}).Err()
}

func (r *RedisWishlistRepository) Remove(ctx context.Context, owner models.Owner, productID string) error {
	return r.client.ZRem(ctx, r.key(owner), productID).Err()
}

func (r *RedisWishlistRepository) List(ctx context.Context, owner models.Owner) ([]string, error) {
	ids, err := r.client.ZRange(ctx, r.key(owner), 0, -1).Result()
	if err == redis.Nil {
		return []string{}, nil
	}
	return ids, err
}
