package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// WithTx returns a repository bound to the given database transaction.
	WithTx(tx *gorm.DB) ProductRepository
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
