package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the store.
// Monetary fields use decimal.Decimal so order totals reconcile exactly.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	// DiscountPrice is the promotional price. Zero means no discount.
	DiscountPrice decimal.Decimal  `json:"discount_price" gorm:"type:decimal(12,2)"`
	Stock         int              `json:"stock" validate:"gte=0"`
	IsActive      bool             `json:"is_active" gorm:"default:true"`
	Variants      []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	gorm.Model                     // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ProductVariant is a sellable variation of a product (e.g. a size or color)
// with its own price and stock. Products without a usable base price are
// priced from their variants.
type ProductVariant struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID string          `json:"product_id" gorm:"index;type:varchar(36)"`
	Label     string          `json:"label" validate:"omitempty,max=100"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Stock     int             `json:"stock" validate:"gte=0"`
	gorm.Model
}
