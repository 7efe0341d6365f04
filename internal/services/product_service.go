package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"shop/internal/models"
	"shop/internal/repositories"
	"shop/pkg/cache"
)

const productCacheTTL = 5 * time.Minute

// ProductService handles business logic related to products. Single-product
// lookups are served through a read-through cache when one is configured.
type ProductService struct {
	repo  repositories.ProductRepository
	cache cache.Cache
}

// NewProductService creates a new ProductService. The cache may be nil.
func NewProductService(repo repositories.ProductRepository, c cache.Cache) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: c,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID, consulting the cache
// first. Cache failures fall through to the repository.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	ctx := context.Background()
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cache.GenerateKey("product", id)); err == nil && cached != "" {
			var product models.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
		}
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if body, err := json.Marshal(product); err == nil {
			if err := s.cache.Set(ctx, s.cache.GenerateKey("product", id), string(body), productCacheTTL); err != nil {
				log.Printf("Failed to cache product %s: %v", id, err)
			}
		}
	}
	return product, nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product and drops its cache entry.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidate(product.ID)
	return nil
}

// DeleteProduct deletes a product by its ID and drops its cache entry.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *ProductService) invalidate(id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.Background(), s.cache.GenerateKey("product", id)); err != nil {
		log.Printf("Failed to invalidate cached product %s: %v", id, err)
	}
}
