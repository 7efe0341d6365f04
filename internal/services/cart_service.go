package services

import (
	"fmt"

	"shop/internal/models"
	"shop/internal/repositories"
)

// CartService handles business logic related to the per-user cart.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddItem adds qty units of a product to the user's cart. Adding a product
// already in the cart increments the existing line instead of creating a
// duplicate.
func (s *CartService) AddItem(userID, productID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", qty)
	}
	// Reject unknown products up front so carts only ever reference real ones.
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}
	return s.cartRepo.AddItem(userID, productID, qty)
}

// RemoveItem removes the product's line from the user's cart if present.
func (s *CartService) RemoveItem(userID, productID string) error {
	return s.cartRepo.RemoveItem(userID, productID)
}

// Clear empties the user's cart. Clearing an already-empty cart is a no-op.
func (s *CartService) Clear(userID string) error {
	return s.cartRepo.Clear(userID)
}

// ListItems returns the user's cart lines with product details resolved.
func (s *CartService) ListItems(userID string) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(userID)
}
