// Package cart implements the shopping cart state machine and its persisted store.
package cart

import (
	"github.com/shopspring/decimal"
)

// StorageKey is the client storage key holding the persisted cart items.
const StorageKey = "cart"

// Item is one cart line. Quantity is always positive.
type Item struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	InStock  bool            `json:"in_stock"`
	Quantity int             `json:"quantity"`
}

// Subtotal is Price times Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Product is the payload of an AddItem action.
type Product struct {
	ID      int
	Name    string
	Price   decimal.Decimal
	Image   string
	InStock bool
}

// State is the cart. Total and ItemCount are derived from Items.
type State struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Action is one of AddItem, UpdateQuantity, RemoveItem or ClearCart.
type Action interface {
	// Name identifies the action kind, e.g. ADD_ITEM.
	Name() string
	isAction()
}

type AddItem struct {
	Product Product
}

type UpdateQuantity struct {
	ID       int
	Quantity int
}

type RemoveItem struct {
	ID int
}

type ClearCart struct{}

func (AddItem) Name() string        { return "ADD_ITEM" }
func (UpdateQuantity) Name() string { return "UPDATE_QUANTITY" }
func (RemoveItem) Name() string     { return "REMOVE_ITEM" }
func (ClearCart) Name() string      { return "CLEAR_CART" }

func (AddItem) isAction()        {}
func (UpdateQuantity) isAction() {}
func (RemoveItem) isAction()     {}
func (ClearCart) isAction()      {}
