package models_test

import (
	"testing"
	"time"

	"shop/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCouponIsValid(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	cases := []struct {
		name   string
		coupon models.Coupon
		valid  bool
	}{
		{"active with no window", models.Coupon{Active: true}, true},
		{"inactive", models.Coupon{Active: false}, false},
		{"not started yet", models.Coupon{Active: true, StartsAt: after}, false},
		{"already started", models.Coupon{Active: true, StartsAt: before}, true},
		{"expired", models.Coupon{Active: true, EndsAt: &before}, false},
		{"not yet expired", models.Coupon{Active: true, EndsAt: &after}, true},
		{"within window", models.Coupon{Active: true, StartsAt: before, EndsAt: &after}, true},
		{"usage cap reached", models.Coupon{Active: true, MaxUses: 3, Used: 3}, false},
		{"usage under cap", models.Coupon{Active: true, MaxUses: 3, Used: 2}, true},
		{"zero cap means unlimited", models.Coupon{Active: true, MaxUses: 0, Used: 1000}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.coupon.IsValid(now))
		})
	}
}
