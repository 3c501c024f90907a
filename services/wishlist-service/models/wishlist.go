package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/yashrajoria/marketplace/pkg/catalog"
)

// Owner scopes a wishlist: the same account id under different roles owns
// different lists.
type Owner struct {
	Role string `json:"role"`
	ID   string `json:"id"`
}

func (o Owner) String() string {
	return o.Role + ":" + o.ID
}

// Entry is one (owner, product) pair. The unique index makes adds idempotent.
type Entry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerRole string    `json:"owner_role" gorm:"type:varchar(16);not null;uniqueIndex:idx_wishlist_owner_product,priority:1"`
	OwnerID   string    `json:"owner_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_wishlist_owner_product,priority:2"`
	ProductID string    `json:"product_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_wishlist_owner_product,priority:3"`
	CreatedAt time.Time `json:"created_at"`
}

func (Entry) TableName() string {
	return "wishlist_entries"
}

// AddRequest is the body of POST /wishlist/:role.
type AddRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// ListResponse is returned by every wishlist endpoint.
type ListResponse struct {
	Items []catalog.Product `json:"items"`
}

// Event types published on the wishlist topic.
const (
	EventItemAdded   = "wishlist.item_added"
	EventItemRemoved = "wishlist.item_removed"
)

// ItemEvent is the SNS payload for wishlist changes.
type ItemEvent struct {
	Type      string    `json:"type"`
	OwnerRole string    `json:"owner_role"`
	OwnerID   string    `json:"owner_id"`
	ProductID string    `json:"product_id"`
	At        time.Time `json:"at"`
}
