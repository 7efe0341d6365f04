package services

import (
	"shop/internal/models"

	"github.com/shopspring/decimal"
)

// ResolvePrice determines the unit price to charge for a product right now.
// It returns the charge price and, when a discount undercuts the base price,
// the base price as the compare-at value.
//
// A product with a positive base price is charged at its discount price when
// that is positive and strictly below the base price, otherwise at the base
// price. A product without a usable base price is charged at the cheapest
// in-stock variant, falling back to the cheapest variant overall when
// everything is out of stock. ErrPriceUnavailable is returned when no price
// exists at all.
//
// The result must be snapshotted onto the order item at order-creation time;
// it is never re-resolved for historical orders.
func ResolvePrice(product *models.Product) (decimal.Decimal, *decimal.Decimal, error) {
	if product.Price.IsPositive() {
		if product.DiscountPrice.IsPositive() && product.DiscountPrice.LessThan(product.Price) {
			base := product.Price
			return product.DiscountPrice, &base, nil
		}
		return product.Price, nil, nil
	}

	if min, ok := minVariantPrice(product.Variants, true); ok {
		return min, nil, nil
	}
	if min, ok := minVariantPrice(product.Variants, false); ok {
		return min, nil, nil
	}
	return decimal.Zero, nil, ErrPriceUnavailable
}

// minVariantPrice returns the lowest positive variant price, optionally
// considering only variants with stock on hand.
func minVariantPrice(variants []models.ProductVariant, inStockOnly bool) (decimal.Decimal, bool) {
	var min decimal.Decimal
	found := false
	for _, v := range variants {
		if inStockOnly && v.Stock <= 0 {
			continue
		}
		if !v.Price.IsPositive() {
			continue
		}
		if !found || v.Price.LessThan(min) {
			min = v.Price
			found = true
		}
	}
	return min, found
}
