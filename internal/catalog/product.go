// Package catalog holds the read-only product catalog and the filter/sort engine used to browse it.
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

// AllOption is the wildcard value for the category and brand criteria.
const AllOption = "Todos"

var ErrProductNotFound = errors.New("product not found")

// Product is an immutable catalog entry.
type Product struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Image         string           `json:"image"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	Category      string           `json:"category"`
	Brand         string           `json:"brand"`
	InStock       bool             `json:"in_stock"`
	Description   string           `json:"description"`
}

// DiscountPercent returns the rounded discount against OriginalPrice,
// or 0 when the product is not discounted.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return 0
	}
	orig := *p.OriginalPrice
	return int(orig.Sub(p.Price).Div(orig).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
