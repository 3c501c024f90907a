package repository

import (
	"context"

	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
)

// WishlistRepository stores product ids per owner with set semantics.
// List returns ids in the order they were first added.
type WishlistRepository interface {
	Add(ctx context.Context, owner models.Owner, productID string) error
	Remove(ctx context.Context, owner models.Owner, productID string) error
	List(ctx context.Context, owner models.Owner) ([]string, error)
}
