package repositories

import (
	"fmt"
	"strings"
	"sync"

	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockCouponRepository is an in-memory implementation of CouponRepository.
type MockCouponRepository struct {
	coupons map[string]models.Coupon
	mu      sync.Mutex
}

// NewMockCouponRepository creates a new instance of MockCouponRepository.
func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{
		coupons: make(map[string]models.Coupon),
	}
}

// WithTx is a no-op for the in-memory implementation.
func (r *MockCouponRepository) WithTx(_ *gorm.DB) CouponRepository {
	return r
}

// Create adds a new coupon.
func (r *MockCouponRepository) Create(coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	r.coupons[coupon.ID] = *coupon
	return nil
}

// GetByCode looks a coupon up case-insensitively.
func (r *MockCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, code) {
			coupon := c
			return &coupon, nil
		}
	}
	return nil, fmt.Errorf("coupon with code %s not found: %w", code, ErrNotFound)
}

// IncrementUsed bumps the usage counter.
func (r *MockCouponRepository) IncrementUsed(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon, ok := r.coupons[id]
	if !ok {
		return fmt.Errorf("coupon with ID %s not found: %w", id, ErrNotFound)
	}
	coupon.Used++
	r.coupons[id] = coupon
	return nil
}
