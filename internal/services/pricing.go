package services

import (
	"github.com/shopspring/decimal"

	"eltetu/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ResolvePrice returns the unit price for a product under the given price
// list: base price when the list is nil or inactive, otherwise
// base x (1 - discount/100), rounded to cents. Pure; all monetary math is
// done in decimals so repeated resolution never drifts.
func ResolvePrice(product *models.Product, list *models.PriceList) decimal.Decimal {
	if list == nil || !list.Active {
		return product.Price
	}
	factor := decimal.NewFromInt(1).Sub(list.DiscountPct.Div(hundred))
	return product.Price.Mul(factor).Round(2)
}
