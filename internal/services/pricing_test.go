package services_test

import (
	"testing"

	"shop/internal/models"
	"shop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestResolvePrice_BasePrice(t *testing.T) {
	product := &models.Product{Name: "Plain", Price: d(10000)}

	charge, compareAt, err := services.ResolvePrice(product)

	assert.NoError(t, err)
	assert.True(t, charge.Equal(d(10000)), "charge = %s", charge)
	assert.Nil(t, compareAt)
}

func TestResolvePrice_DiscountBelowBase(t *testing.T) {
	product := &models.Product{Name: "On sale", Price: d(10000), DiscountPrice: d(8000)}

	charge, compareAt, err := services.ResolvePrice(product)

	assert.NoError(t, err)
	assert.True(t, charge.Equal(d(8000)), "charge = %s", charge)
	if assert.NotNil(t, compareAt) {
		assert.True(t, compareAt.Equal(d(10000)), "compareAt = %s", compareAt)
	}
}

func TestResolvePrice_DiscountNotBelowBaseIgnored(t *testing.T) {
	// A "discount" at or above the base price must not be charged.
	for _, discount := range []decimal.Decimal{d(10000), d(12000)} {
		product := &models.Product{Name: "Bad sale", Price: d(10000), DiscountPrice: discount}

		charge, compareAt, err := services.ResolvePrice(product)

		assert.NoError(t, err)
		assert.True(t, charge.Equal(d(10000)), "discount %s: charge = %s", discount, charge)
		assert.Nil(t, compareAt)
	}
}

func TestResolvePrice_CheapestInStockVariant(t *testing.T) {
	product := &models.Product{
		Name: "Variants only",
		Variants: []models.ProductVariant{
			{Label: "L", Price: d(7000), Stock: 3},
			{Label: "M", Price: d(5000), Stock: 1},
			{Label: "S", Price: d(4000), Stock: 0}, // cheapest but out of stock
		},
	}

	charge, compareAt, err := services.ResolvePrice(product)

	assert.NoError(t, err)
	assert.True(t, charge.Equal(d(5000)), "charge = %s", charge)
	assert.Nil(t, compareAt)
}

func TestResolvePrice_AllVariantsOutOfStock(t *testing.T) {
	// With nothing in stock the cheapest variant overall still prices the
	// product so it can be displayed.
	product := &models.Product{
		Name: "Sold out",
		Variants: []models.ProductVariant{
			{Label: "L", Price: d(7000), Stock: 0},
			{Label: "S", Price: d(4000), Stock: 0},
		},
	}

	charge, compareAt, err := services.ResolvePrice(product)

	assert.NoError(t, err)
	assert.True(t, charge.Equal(d(4000)), "charge = %s", charge)
	assert.Nil(t, compareAt)
}

func TestResolvePrice_NoPriceAnywhere(t *testing.T) {
	product := &models.Product{Name: "Unpriced"}

	_, _, err := services.ResolvePrice(product)

	assert.ErrorIs(t, err, services.ErrPriceUnavailable)
}
