package models

import "time"

// CartItem holds one pending line in a user's cart. At most one row exists
// per (user, product); adding the same product again increments Quantity.
// Lines are deleted outright rather than soft-deleted: a tombstone would
// still occupy the unique index and block re-adding the product after the
// cart is cleared.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_cart_user_product;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"uniqueIndex:idx_cart_user_product;type:varchar(36)"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
