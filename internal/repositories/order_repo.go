package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// WithTx returns a repository bound to the given database transaction.
	WithTx(tx *gorm.DB) OrderRepository
	GetAll() ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// GetByAuthority finds the order holding a pending gateway payment token.
	GetByAuthority(authority string) (*models.Order, error)
	Create(order *models.Order) error
	CreateItem(item *models.OrderItem) error
	Update(order *models.Order) error
	UpdateStatus(id string, status string) error
}
