package cart

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Reduce returns the state that results from applying action to state.
// The input state is never modified.
func Reduce(state State, action Action) State {
	items := slices.Clone(state.Items)

	switch a := action.(type) {
	case AddItem:
		if !a.Product.InStock {
			break
		}
		if i := indexOf(items, a.Product.ID); i >= 0 {
			items[i].Quantity++
			break
		}
		items = append(items, Item{
			ID:       a.Product.ID,
			Name:     a.Product.Name,
			Price:    a.Product.Price,
			Image:    a.Product.Image,
			InStock:  a.Product.InStock,
			Quantity: 1,
		})
	case UpdateQuantity:
		i := indexOf(items, a.ID)
		if i < 0 {
			break
		}
		if a.Quantity <= 0 {
			items = slices.Delete(items, i, i+1)
			break
		}
		items[i].Quantity = a.Quantity
	case RemoveItem:
		if i := indexOf(items, a.ID); i >= 0 {
			items = slices.Delete(items, i, i+1)
		}
	case ClearCart:
		items = nil
	}

	return newState(items)
}

// newState derives Total and ItemCount from items.
func newState(items []Item) State {
	if items == nil {
		items = []Item{}
	}
	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.Subtotal())
		count += item.Quantity
	}
	return State{Items: items, Total: total, ItemCount: count}
}

func indexOf(items []Item, id int) int {
	return slices.IndexFunc(items, func(item Item) bool { return item.ID == id })
}
