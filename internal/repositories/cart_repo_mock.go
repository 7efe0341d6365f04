package repositories

import (
	"fmt"
	"sync"

	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	// keyed by userID then productID
	lines map[string]map[string]models.CartItem
	mu    sync.Mutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		lines: make(map[string]map[string]models.CartItem),
	}
}

// WithTx is a no-op for the in-memory implementation.
func (r *MockCartRepository) WithTx(_ *gorm.DB) CartRepository {
	return r
}

// AddItem inserts or increments a cart line under a single lock, mirroring
// the atomic increment of the GORM implementation.
func (r *MockCartRepository) AddItem(userID, productID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", qty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	userLines, ok := r.lines[userID]
	if !ok {
		userLines = make(map[string]models.CartItem)
		r.lines[userID] = userLines
	}

	line, ok := userLines[productID]
	if ok {
		line.Quantity += qty
	} else {
		line = models.CartItem{
			ID:        uuid.New().String(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  qty,
		}
	}
	userLines[productID] = line
	return &line, nil
}

// RemoveItem deletes the matching cart line if present.
func (r *MockCartRepository) RemoveItem(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userLines, ok := r.lines[userID]; ok {
		delete(userLines, productID)
	}
	return nil
}

// Clear deletes all cart lines for the user.
func (r *MockCartRepository) Clear(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lines, userID)
	return nil
}

// ListByUser returns the user's cart lines.
func (r *MockCartRepository) ListByUser(userID string) ([]models.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userLines := r.lines[userID]
	list := make([]models.CartItem, 0, len(userLines))
	for _, line := range userLines {
		list = append(list, line)
	}
	return list, nil
}
