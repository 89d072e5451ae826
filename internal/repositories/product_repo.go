package repositories

import (
	"eltetu/internal/models"
)

// ProductRepository defines the interface for product data access, including
// the stock ledger operations.
//
// The ledger contract: LockProducts acquires exclusive row locks scoped to
// the given transaction, always in ascending id order so two transactions
// locking overlapping product sets can never deadlock. ReserveStock and
// ReleaseStock mutate the counter with an atomic delta update and must only
// be called while the caller holds the row lock; the ledger itself never
// locks, which keeps it composable with the order transition's multi-row
// lock acquisition.
type ProductRepository interface {
	GetAll(onlyActive bool) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// HasAvailability is a best-effort availability read, not guaranteed
	// fresh outside a lock.
	HasAvailability(id string) (bool, error)
	// LockProducts locks the given product rows exclusively within tx and
	// returns their current state, in ascending id order.
	LockProducts(tx Tx, ids []string) ([]models.Product, error)
	// ReserveStock atomically decrements stock by quantity; it fails
	// without mutation if the current value does not cover the quantity.
	ReserveStock(tx Tx, id string, quantity int) error
	// ReleaseStock atomically increments stock by quantity.
	ReleaseStock(tx Tx, id string, quantity int) error
}
