package repositories

import (
	"fmt"
	"sync"

	"eltetu/internal/models"

	"github.com/google/uuid"
)

// MockPriceListRepository is an in-memory implementation of
// PriceListRepository.
type MockPriceListRepository struct {
	lists      map[string]models.PriceList
	referenced map[string]bool
	mu         sync.RWMutex
}

// NewMockPriceListRepository creates a new instance of
// MockPriceListRepository.
func NewMockPriceListRepository() *MockPriceListRepository {
	return &MockPriceListRepository{
		lists:      make(map[string]models.PriceList),
		referenced: make(map[string]bool),
	}
}

// GetAll returns all price lists.
func (r *MockPriceListRepository) GetAll() ([]models.PriceList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lists := make([]models.PriceList, 0, len(r.lists))
	for _, l := range r.lists {
		lists = append(lists, l)
	}
	return lists, nil
}

// GetByID returns a price list by its ID.
func (r *MockPriceListRepository) GetByID(id string) (*models.PriceList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.lists[id]
	if !ok {
		return nil, fmt.Errorf("price list with ID %s not found", id)
	}
	return &list, nil
}

// Create adds a new price list.
func (r *MockPriceListRepository) Create(list *models.PriceList) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	r.lists[list.ID] = *list
	return nil
}

// Update modifies an existing price list.
func (r *MockPriceListRepository) Update(list *models.PriceList) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[list.ID]; !ok {
		return fmt.Errorf("price list with ID %s not found for update", list.ID)
	}
	r.lists[list.ID] = *list
	return nil
}

// Delete removes a price list.
func (r *MockPriceListRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[id]; !ok {
		return fmt.Errorf("price list with ID %s not found for deletion", id)
	}
	delete(r.lists, id)
	return nil
}

// IsReferenced reports whether the list was marked as referenced.
func (r *MockPriceListRepository) IsReferenced(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.referenced[id], nil
}

// MarkReferenced marks a list as referenced by a customer or order; test
// hook for the soft-delete path.
func (r *MockPriceListRepository) MarkReferenced(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.referenced[id] = true
}
