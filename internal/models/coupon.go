package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a percent-off discount code with a validity window and an
// optional usage cap (MaxUses == 0 means unlimited).
type Coupon struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code       string     `json:"code" gorm:"uniqueIndex;type:varchar(40)" validate:"required,max=40"`
	PercentOff int        `json:"percent_off" validate:"gte=0,lte=100"`
	MaxUses    int        `json:"max_uses" validate:"gte=0"`
	Used       int        `json:"used"`
	Active     bool       `json:"active" gorm:"default:true"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	gorm.Model
}

// IsValid reports whether the coupon can be applied at the given time.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.Active {
		return false
	}
	if !c.StartsAt.IsZero() && now.Before(c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}
	if c.MaxUses > 0 && c.Used >= c.MaxUses {
		return false
	}
	return true
}
