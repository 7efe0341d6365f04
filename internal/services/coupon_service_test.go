package services_test

import (
	"testing"
	"time"

	"shop/internal/models"
	"shop/internal/repositories"
	"shop/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestCouponService_ApplyUnknownCodeIsInvalidNotError(t *testing.T) {
	service := services.NewCouponService(repositories.NewMockCouponRepository())

	application, err := service.Apply("NOPE")

	assert.NoError(t, err)
	assert.False(t, application.Valid)
}

func TestCouponService_ApplyActiveCoupon(t *testing.T) {
	repo := repositories.NewMockCouponRepository()
	service := services.NewCouponService(repo)
	assert.NoError(t, service.CreateCoupon(&models.Coupon{
		Code:       "SAVE10",
		PercentOff: 10,
		Active:     true,
	}))

	application, err := service.Apply("save10") // codes are case-insensitive

	assert.NoError(t, err)
	assert.True(t, application.Valid)
	assert.Equal(t, 10, application.PercentOff)
}

func TestCouponService_ApplyExpiredCoupon(t *testing.T) {
	repo := repositories.NewMockCouponRepository()
	service := services.NewCouponService(repo)
	yesterday := time.Now().Add(-24 * time.Hour)
	assert.NoError(t, service.CreateCoupon(&models.Coupon{
		Code:       "OLD",
		PercentOff: 20,
		Active:     true,
		EndsAt:     &yesterday,
	}))

	application, err := service.Apply("OLD")

	assert.NoError(t, err)
	assert.False(t, application.Valid)
}

func TestCouponService_ApplyExhaustedCoupon(t *testing.T) {
	repo := repositories.NewMockCouponRepository()
	service := services.NewCouponService(repo)
	assert.NoError(t, service.CreateCoupon(&models.Coupon{
		Code:       "ONCE",
		PercentOff: 50,
		Active:     true,
		MaxUses:    1,
		Used:       1,
	}))

	application, err := service.Apply("ONCE")

	assert.NoError(t, err)
	assert.False(t, application.Valid)
}
