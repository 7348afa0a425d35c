package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// ParseSortKey maps a query value to a SortKey. An empty value means featured.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortName:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Criteria selects and orders the visible products. The price range is inclusive.
type Criteria struct {
	SearchQuery string
	Category    string
	Brand       string
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	InStockOnly bool
	Sort        SortKey
}

// DefaultCriteria matches the initial state of the catalog view.
func DefaultCriteria() Criteria {
	return Criteria{
		Category: AllOption,
		Brand:    AllOption,
		MinPrice: decimal.Zero,
		MaxPrice: decimal.NewFromInt(1500),
		Sort:     SortFeatured,
	}
}

func (c Criteria) matches(p Product, query string) bool {
	if query != "" &&
		!strings.Contains(strings.ToLower(p.Name), query) &&
		!strings.Contains(strings.ToLower(p.Description), query) {
		return false
	}
	if c.Category != AllOption && c.Category != p.Category {
		return false
	}
	if c.Brand != AllOption && c.Brand != p.Brand {
		return false
	}
	if p.Price.LessThan(c.MinPrice) || p.Price.GreaterThan(c.MaxPrice) {
		return false
	}
	return !c.InStockOnly || p.InStock
}

// Filter returns the products matching criteria in the requested order.
// It never modifies products; ties keep their original relative order.
// An unknown sort key leaves the catalog order unchanged.
func Filter(products []Product, criteria Criteria) []Product {
	query := strings.ToLower(criteria.SearchQuery)
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if criteria.matches(p, query) {
			result = append(result, p)
		}
	}

	switch criteria.Sort {
	case SortPriceLow:
		slices.SortStableFunc(result, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(result, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(result, func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) })
	case SortName:
		// collators keep internal buffers and are not safe for concurrent use
		collator := collate.New(language.Spanish)
		slices.SortStableFunc(result, func(a, b Product) int { return collator.CompareString(a.Name, b.Name) })
	}
	return result
}
