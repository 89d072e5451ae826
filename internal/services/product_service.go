package services

import (
	"eltetu/internal/models"
	"eltetu/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves products; customers only see active ones.
func (s *ProductService) GetAllProducts(onlyActive bool) ([]models.Product, error) {
	return s.repo.GetAll(onlyActive)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// HasAvailability is a best-effort stock availability signal.
func (s *ProductService) HasAvailability(id string) (bool, error) {
	return s.repo.HasAvailability(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.Price.IsNegative() {
		return &BusinessValidationError{Message: "el precio no puede ser negativo", Field: "precio"}
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.Price.IsNegative() {
		return &BusinessValidationError{Message: "el precio no puede ser negativo", Field: "precio"}
	}
	return s.repo.Update(product)
}

// DeleteProduct soft-deletes a product; order lines that reference it keep
// working through their snapshot fields.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
