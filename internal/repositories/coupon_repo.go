package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	// WithTx returns a repository bound to the given database transaction.
	WithTx(tx *gorm.DB) CouponRepository
	Create(coupon *models.Coupon) error
	// GetByCode looks a coupon up case-insensitively.
	GetByCode(code string) (*models.Coupon, error)
	// IncrementUsed bumps the usage counter atomically.
	IncrementUsed(id string) error
}
