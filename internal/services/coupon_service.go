package services

import (
	"errors"
	"strings"
	"time"

	"shop/internal/models"
	"shop/internal/repositories"
)

// timeNow is swapped out in tests that exercise validity windows.
var timeNow = time.Now

// CouponApplication is the outcome of checking a coupon code.
type CouponApplication struct {
	Valid      bool `json:"valid"`
	PercentOff int  `json:"percent_off"`
}

// CouponService handles business logic related to discount coupons.
type CouponService struct {
	repo repositories.CouponRepository
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repositories.CouponRepository) *CouponService {
	return &CouponService{
		repo: repo,
	}
}

// CreateCoupon creates a new coupon.
func (s *CouponService) CreateCoupon(coupon *models.Coupon) error {
	coupon.Code = strings.TrimSpace(coupon.Code)
	return s.repo.Create(coupon)
}

// Apply checks a coupon code. An unknown code is not an error; it simply
// reports invalid, matching how storefronts probe codes as the customer
// types them.
func (s *CouponService) Apply(code string) (*CouponApplication, error) {
	coupon, err := s.repo.GetByCode(strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &CouponApplication{Valid: false}, nil
		}
		return nil, err
	}
	return &CouponApplication{
		Valid:      coupon.IsValid(timeNow()),
		PercentOff: coupon.PercentOff,
	}, nil
}
