package repositories

import (
	"fmt"
	"sort"
	"sync"

	"eltetu/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Used with MockTxManager, whose transaction mutex stands in for the
// database row locks: LockProducts and the stock mutations are only ever
// reached while the caller holds the transaction.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products, optionally only active ones.
func (r *MockProductRepository) GetAll(onlyActive bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if onlyActive && !p.Active {
			continue
		}
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found", id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s not found for update", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s not found for deletion", id)
	}
	delete(r.products, id)
	return nil
}

// HasAvailability reports whether the product currently has stock.
func (r *MockProductRepository) HasAvailability(id string) (bool, error) {
	product, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	return product.Active && product.HasStock(), nil
}

// LockProducts returns the current state of the given products in ascending
// id order. Exclusion is provided by the enclosing mock transaction.
func (r *MockProductRepository) LockProducts(_ Tx, ids []string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	products := make([]models.Product, 0, len(sorted))
	for _, id := range sorted {
		if p, ok := r.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// ReserveStock decrements stock, failing without mutation on a shortfall.
func (r *MockProductRepository) ReserveStock(_ Tx, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found", id)
	}
	if product.Stock < quantity {
		return fmt.Errorf("insufficient stock for product %s", id)
	}
	product.Stock -= quantity
	r.products[id] = product
	return nil
}

// ReleaseStock increments stock.
func (r *MockProductRepository) ReleaseStock(_ Tx, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found", id)
	}
	product.Stock += quantity
	r.products[id] = product
	return nil
}

// MockTxManager serializes mock "transactions" behind a single mutex, which
// emulates the exclusion the row locks provide in the database.
type MockTxManager struct {
	mu sync.Mutex
}

// NewMockTxManager creates a new instance of MockTxManager.
func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// InTransaction runs fn while holding the transaction mutex.
func (m *MockTxManager) InTransaction(fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(nil)
}
