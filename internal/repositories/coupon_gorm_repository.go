package repositories

import (
	"errors"
	"fmt"

	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{
		db: db,
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *GORMCouponRepository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &GORMCouponRepository{db: tx}
}

// Create creates a new coupon in the database.
func (r *GORMCouponRepository) Create(coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	if err := r.db.Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its code, case-insensitively.
func (r *GORMCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "LOWER(code) = LOWER(?)", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("coupon with code %s not found: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon by code %s: %w", code, err)
	}
	return &coupon, nil
}

// IncrementUsed bumps the usage counter in the database, not via
// read-modify-write.
func (r *GORMCouponRepository) IncrementUsed(id string) error {
	res := r.db.Model(&models.Coupon{}).Where("id = ?", id).
		Update("used", gorm.Expr("used + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("coupon with ID %s not found for usage update: %w", id, ErrNotFound)
	}
	return nil
}
