package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// CartRepository defines the interface for cart line data access.
type CartRepository interface {
	// WithTx returns a repository bound to the given database transaction.
	WithTx(tx *gorm.DB) CartRepository
	// AddItem creates a cart line for (user, product) or, if one already
	// exists, atomically increments its quantity. Returns the refreshed line.
	AddItem(userID, productID string, qty int) (*models.CartItem, error)
	// RemoveItem deletes the matching line if present. Absent lines are not
	// an error.
	RemoveItem(userID, productID string) error
	// Clear deletes all cart lines for the user. Calling it on an empty cart
	// is a no-op.
	Clear(userID string) error
	// ListByUser returns the user's cart lines with products resolved.
	ListByUser(userID string) ([]models.CartItem, error)
}
