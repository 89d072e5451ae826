package repositories

import "eltetu/internal/models"

// PriceListRepository defines the interface for price-list data access.
type PriceListRepository interface {
	GetAll() ([]models.PriceList, error)
	GetByID(id string) (*models.PriceList, error)
	Create(list *models.PriceList) error
	Update(list *models.PriceList) error
	// Delete soft-deletes the list; historical order snapshots keep their
	// values regardless.
	Delete(id string) error
	// IsReferenced reports whether any customer or order references the
	// list.
	IsReferenced(id string) (bool, error)
}
