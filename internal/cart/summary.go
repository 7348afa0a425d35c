package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

const promoCode = "descuento10"

var (
	freeShippingOver = decimal.NewFromInt(100)
	shippingCost     = decimal.RequireFromString("15.99")
	taxRate          = decimal.RequireFromString("0.08")
)

// Summary is the checkout breakdown of a cart.
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize computes shipping and tax for the cart. Amounts are rounded to cents.
// Shipping is free above 100 and for an empty cart.
func Summarize(state State) Summary {
	subtotal := state.Total.Round(2)
	shipping := shippingCost
	if state.ItemCount == 0 || subtotal.GreaterThan(freeShippingOver) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// CheckPromoCode reports whether code is the store promo code.
// A valid code does not change the summary.
func CheckPromoCode(code string) bool {
	return strings.EqualFold(code, promoCode)
}
