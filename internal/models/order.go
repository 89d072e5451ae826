package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a line of an order. It keeps a weak reference to the product
// (nulled if the product is deleted) plus name/code snapshots taken at
// creation, so the order stays readable as a historical record.
type OrderItem struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID string `json:"pedido_id" gorm:"index;type:varchar(36)"`

	ProductID *string  `json:"producto_id" gorm:"type:varchar(36)"`
	Product   *Product `json:"producto_detalle,omitempty" gorm:"constraint:OnDelete:SET NULL"`

	// Snapshots captured at line creation; authoritative once the live
	// product is gone.
	ProductName string `json:"producto_nombre" gorm:"type:varchar(200)"`
	ProductCode string `json:"producto_codigo" gorm:"type:varchar(50)"`

	Quantity  int             `json:"cantidad" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"precio_unitario" gorm:"type:decimal(10,2)"` // snapshotted, never re-derived
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2)"`
	Discount  decimal.Decimal `json:"descuento" gorm:"type:decimal(10,2)"`

	CreatedAt time.Time `json:"fecha_creacion"`
}

// RecomputeSubtotal keeps the line subtotal consistent with
// quantity x unit price.
func (it *OrderItem) RecomputeSubtotal() {
	it.Subtotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Order is the aggregate root. It exclusively owns its items and holds
// non-owning references to the customer, courier and price list; the
// snapshot fields keep it self-contained once those are edited or deleted.
type Order struct {
	ID string `json:"id" gorm:"primaryKey;type:varchar(36)"`

	CustomerID string `json:"cliente_id" gorm:"index;type:varchar(36)"`
	Customer   *User  `json:"cliente_detalle,omitempty" gorm:"foreignKey:CustomerID"`

	CourierID *string `json:"transportador_id" gorm:"index;type:varchar(36)"`
	Courier   *User   `json:"transportador_detalle,omitempty" gorm:"foreignKey:CourierID"`

	Status Status `json:"estado" gorm:"type:varchar(20);index"`

	// Price list used for this order; nil means base prices. The snapshots
	// below are authoritative even if the list is later edited or deleted.
	PriceListID       *string          `json:"lista_precio_id" gorm:"type:varchar(36)"`
	PriceListName     *string          `json:"lista_precio_nombre" gorm:"type:varchar(100)"`
	PriceListDiscount *decimal.Decimal `json:"lista_precio_descuento" gorm:"type:decimal(5,2)"`

	// Derived, never hand-set.
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2)"`
	DiscountTotal decimal.Decimal `json:"descuento_total" gorm:"type:decimal(10,2)"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(10,2)"`

	Notes string `json:"notas"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt   time.Time  `json:"fecha_creacion"`
	UpdatedAt   time.Time  `json:"fecha_actualizacion"`
	ConfirmedAt *time.Time `json:"fecha_confirmacion"`
	DeliveredAt *time.Time `json:"fecha_entrega"`
}

// RecomputeTotals rederives subtotal, discount total and total from the
// items. Idempotent; the same items always produce the same totals.
func (o *Order) RecomputeTotals() {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, it := range o.Items {
		subtotal = subtotal.Add(it.Subtotal)
		discount = discount.Add(it.Discount)
	}
	o.Subtotal = subtotal
	o.DiscountTotal = discount
	o.Total = subtotal.Sub(discount)
}

// DistinctProductIDs returns the distinct non-nil product ids referenced by
// the items, in ascending order. Locking this set (and not one row per line)
// keeps a product row from being locked twice within one order.
func (o *Order) DistinctProductIDs() []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ProductID == nil || seen[*it.ProductID] {
			continue
		}
		seen[*it.ProductID] = true
		ids = append(ids, *it.ProductID)
	}
	sort.Strings(ids)
	return ids
}

// QuantityByProduct sums the requested quantity per distinct product id.
func (o *Order) QuantityByProduct() map[string]int {
	quantities := make(map[string]int)
	for _, it := range o.Items {
		if it.ProductID == nil {
			continue
		}
		quantities[*it.ProductID] += it.Quantity
	}
	return quantities
}

// PriceListLabel returns the display name of the order's price list,
// preferring the snapshot.
func (o *Order) PriceListLabel() string {
	if o.PriceListName != nil {
		return *o.PriceListName
	}
	return "Lista Base"
}
