package services

import (
	"fmt"

	"eltetu/internal/models"
)

// InvalidStateTransitionError is returned when a requested order status
// change is not in the flow's transition table.
type InvalidStateTransitionError struct {
	Current models.Status
	Target  models.Status
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("no se puede cambiar de %s a %s", e.Current, e.Target)
}

// InsufficientStockError is returned from the locked availability re-check
// when a product cannot cover the order's quantity. When it is returned, no
// stock counter has been modified.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s (solicitado: %d, disponible: %d)",
		e.ProductName, e.Requested, e.Available)
}

// ProductNotAvailableError is returned at order creation when a line
// references a product that is missing, inactive or out of stock.
type ProductNotAvailableError struct {
	ProductID string
	Reason    string
}

func (e *ProductNotAvailableError) Error() string {
	return fmt.Sprintf("producto %s no disponible: %s", e.ProductID, e.Reason)
}

// BusinessValidationError is a rule violation with optional field
// attribution (empty order, wrong courier role, no valid products left).
type BusinessValidationError struct {
	Message string
	Field   string
}

func (e *BusinessValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}
