package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog product. Price is the base list price before
// any price-list discount; Stock is the single counter mutated by the stock
// ledger.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Code        string          `json:"codigo" gorm:"uniqueIndex;type:varchar(50)" validate:"required,max=50"`
	Name        string          `json:"nombre" validate:"required,min=2,max=200"`
	Description string          `json:"descripcion" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"precio" gorm:"type:decimal(10,2)"`
	Stock       int             `json:"stock" validate:"gte=0"`
	MinStock    int             `json:"stock_minimo" validate:"gte=0"`
	Active      bool            `json:"activo" gorm:"default:true"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// HasStock reports whether any stock is available. Outside a row lock this is
// a best-effort read.
func (p *Product) HasStock() bool {
	return p.Stock > 0
}

// LowStock reports whether stock is at or below the configured minimum.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}
