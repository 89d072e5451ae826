package repositories

import (
	"eltetu/internal/models"
)

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	CustomerID string
	CourierID  string
	Status     models.Status
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(filter OrderFilter) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// GetByIDTx re-reads the order row inside tx, locking it, so concurrent
	// transitions on the same order serialize. Items are not loaded.
	GetByIDTx(tx Tx, id string) (*models.Order, error)
	Create(order *models.Order) error
	// Save persists the order's own row (status, totals, timestamps,
	// courier); items are written once at creation and never rewritten.
	Save(order *models.Order) error
	// SaveTx is Save inside an enclosing transaction, used when the status
	// change must commit atomically with stock mutations.
	SaveTx(tx Tx, order *models.Order) error
}
