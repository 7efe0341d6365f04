package repositories

import (
	"fmt"
	"sync"
	"time"

	"shop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// WithTx is a no-op for the in-memory implementation.
func (r *MockOrderRepository) WithTx(_ *gorm.DB) OrderRepository {
	return r
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	return orderList, nil
}

// GetByUser returns all orders owned by the user.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orderList []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s not found: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetByAuthority returns the order holding the given gateway authority.
func (r *MockOrderRepository) GetByAuthority(authority string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.PaymentAuthority == authority {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order with authority %s not found: %w", authority, ErrNotFound)
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// CreateItem appends an item to its owning order.
func (r *MockOrderRepository) CreateItem(item *models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[item.OrderID]
	if !ok {
		return fmt.Errorf("order with ID %s not found for item: %w", item.OrderID, ErrNotFound)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	order.Items = append(order.Items, *item)
	r.orders[item.OrderID] = order
	return nil
}

// Update replaces a stored order.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return fmt.Errorf("order with ID %s not found for update: %w", order.ID, ErrNotFound)
	}
	// Preserve items appended via CreateItem when the caller's copy is stale.
	if len(order.Items) < len(stored.Items) {
		order.Items = stored.Items
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
