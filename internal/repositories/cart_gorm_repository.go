package repositories

import (
	"errors"
	"fmt"

	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *GORMCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GORMCartRepository{db: tx}
}

// AddItem inserts a new cart line or increments the existing one. The
// increment runs in the database (quantity = quantity + ?), not as a
// read-modify-write, so concurrent adds for the same (user, product) pair
// cannot lose updates.
func (r *GORMCartRepository) AddItem(userID, productID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", qty)
	}

	line := models.CartItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("quantity + ?", qty)}),
	}).Create(&line).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	// Re-read so callers see the summed quantity after an upsert.
	var refreshed models.CartItem
	err = r.db.Preload("Product").
		First(&refreshed, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload cart item: %w", err)
	}
	return &refreshed, nil
}

// RemoveItem deletes the cart line for (user, product) if it exists.
func (r *GORMCartRepository) RemoveItem(userID, productID string) error {
	err := r.db.Delete(&models.CartItem{}, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear deletes all cart lines for the user.
func (r *GORMCartRepository) Clear(userID string) error {
	err := r.db.Delete(&models.CartItem{}, "user_id = ?", userID).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}

// ListByUser returns all cart lines for the user with products preloaded.
func (r *GORMCartRepository) ListByUser(userID string) ([]models.CartItem, error) {
	var lines []models.CartItem
	err := r.db.Preload("Product").Preload("Product.Variants").
		Find(&lines, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list cart items for user %s: %w", userID, err)
	}
	return lines, nil
}
