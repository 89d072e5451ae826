package repositories

import (
	"fmt"

	"eltetu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPriceListRepository is a GORM implementation of PriceListRepository.
type GORMPriceListRepository struct {
	db *gorm.DB
}

// NewGORMPriceListRepository creates a new instance of GORMPriceListRepository.
func NewGORMPriceListRepository(db *gorm.DB) *GORMPriceListRepository {
	return &GORMPriceListRepository{
		db: db,
	}
}

// GetAll retrieves all price lists.
func (r *GORMPriceListRepository) GetAll() ([]models.PriceList, error) {
	var lists []models.PriceList
	if err := r.db.Order("name").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("failed to get price lists: %w", err)
	}
	return lists, nil
}

// GetByID retrieves a single price list by its ID.
func (r *GORMPriceListRepository) GetByID(id string) (*models.PriceList, error) {
	var list models.PriceList
	if err := r.db.First(&list, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("price list with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get price list by ID %s: %w", id, err)
	}
	return &list, nil
}

// Create creates a new price list.
func (r *GORMPriceListRepository) Create(list *models.PriceList) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if err := r.db.Create(list).Error; err != nil {
		return fmt.Errorf("failed to create price list: %w", err)
	}
	return nil
}

// Update updates an existing price list.
func (r *GORMPriceListRepository) Update(list *models.PriceList) error {
	res := r.db.Save(list)
	if res.Error != nil {
		return fmt.Errorf("failed to update price list: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("price list with ID %s not found for update", list.ID)
	}
	return nil
}

// Delete soft-deletes a price list.
func (r *GORMPriceListRepository) Delete(id string) error {
	res := r.db.Delete(&models.PriceList{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete price list: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("price list with ID %s not found for deletion", id)
	}
	return nil
}

// IsReferenced reports whether any customer or order references the list.
func (r *GORMPriceListRepository) IsReferenced(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("price_list_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count customers for price list %s: %w", id, err)
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&models.Order{}).Where("price_list_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count orders for price list %s: %w", id, err)
	}
	return count > 0, nil
}
