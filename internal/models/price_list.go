package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceList is a named discount tier applied to product base prices.
// Once referenced by customers or historical orders it is only ever
// soft-deleted, so order snapshots keep a resolvable origin.
type PriceList struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"nombre" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Description string          `json:"descripcion" validate:"omitempty,max=500"`
	DiscountPct decimal.Decimal `json:"descuento_porcentaje" gorm:"type:decimal(5,2)"`
	Active      bool            `json:"activo" gorm:"default:true"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
