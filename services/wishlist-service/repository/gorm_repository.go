package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
)

// GormWishlistRepository stores entries in Postgres. The unique index on
// (owner_role, owner_id, product_id) plus ON CONFLICT DO NOTHING makes Add
// idempotent.
type GormWishlistRepository struct {
	db *gorm.DB
}

func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

func (r *GormWishlistRepository) Add(ctx context.Context, owner models.Owner, productID string) error {
	entry := &models.Entry{
		ID:        uuid.New(),
		OwnerRole: owner.Role,
		OwnerID:   owner.ID,
		ProductID: productID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry).Error
}

func (r *GormWishlistRepository) Remove(ctx context.Context, owner models.Owner, productID string) error {
	return r.db.WithContext(ctx).
		Where("owner_role = ? AND owner_id = ? AND product_id = ?", owner.Role, owner.ID, productID).
		Delete(&models.Entry{}).Error
}

func (r *GormWishlistRepository) List(ctx context.Context, owner models.Owner) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.Entry{}).
		Where("owner_role = ? AND owner_id = ?", owner.Role, owner.ID).
		Order("created_at ASC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
