package repositories

import (
	"shop/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// WithTx returns a repository bound to the given database transaction.
	WithTx(tx *gorm.DB) UserRepository
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
