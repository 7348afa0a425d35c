package rest

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/santiago072004/Tienda/internal/cart"
	"github.com/santiago072004/Tienda/internal/catalog"
	"github.com/santiago072004/Tienda/pkg/web"
)

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

type updateQuantityRequest struct {
	// Quantity of zero or less removes the item.
	Quantity *int `json:"quantity" validate:"required"`
}

type summaryResponse struct {
	cart.Summary
	ItemCount    int  `json:"item_count"`
	PromoApplied bool `json:"promo_applied"`
}

// GetCart returns the session cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, sess.Cart.State())
}

// AddCartItem adds one unit of a catalog product to the cart.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.FindByID(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", req.ProductID))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving product", "ID", req.ProductID, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to add product to cart")
		return
	}
	if !product.InStock {
		web.RespondError(w, h.logger, http.StatusConflict, fmt.Sprintf("Product with ID %d is out of stock", product.ID))
		return
	}

	state := sess.Cart.Dispatch(r.Context(), cart.AddItem{Product: cart.Product{
		ID:      product.ID,
		Name:    product.Name,
		Price:   product.Price,
		Image:   product.Image,
		InStock: product.InStock,
	}})
	web.RespondJSON(w, h.logger, http.StatusOK, state)
}

// UpdateCartItem sets the quantity of a cart item.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var req updateQuantityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	store := sess.Cart
	if !hasItem(store.State(), id) {
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d is not in the cart", id))
		return
	}
	state := store.Dispatch(r.Context(), cart.UpdateQuantity{ID: id, Quantity: *req.Quantity})
	web.RespondJSON(w, h.logger, http.StatusOK, state)
}

// RemoveCartItem removes an item from the cart.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	store := sess.Cart
	if !hasItem(store.State(), id) {
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d is not in the cart", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, store.Dispatch(r.Context(), cart.RemoveItem{ID: id}))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, sess.Cart.Dispatch(r.Context(), cart.ClearCart{}))
}

// CartSummary returns the checkout breakdown. The promo query parameter is only checked, never applied.
func (h *Handler) CartSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	state := sess.Cart.State()
	promo := r.URL.Query().Get("promo")
	web.RespondJSON(w, h.logger, http.StatusOK, summaryResponse{
		Summary:      cart.Summarize(state),
		ItemCount:    state.ItemCount,
		PromoApplied: promo != "" && cart.CheckPromoCode(promo),
	})
}

func hasItem(state cart.State, id int) bool {
	return slices.ContainsFunc(state.Items, func(item cart.Item) bool { return item.ID == id })
}
