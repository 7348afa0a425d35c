package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/santiago072004/Tienda/internal/catalog"
	"github.com/santiago072004/Tienda/pkg/web"
	"github.com/shopspring/decimal"
)

type productResponse struct {
	catalog.Product
	DiscountPercent int `json:"discount_percent"`
}

type facetsResponse struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{Product: p, DiscountPercent: p.DiscountPercent()}
}

// ListProducts returns the catalog filtered and sorted by the query parameters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	criteria, ok := h.parseCriteria(w, r)
	if !ok {
		return
	}
	list := h.catalog.List(criteria)

	resp := make([]productResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, toProductResponse(p))
	}
	h.logger.DebugContext(r.Context(), "Listed products", "count", len(resp), "sort", criteria.Sort)
	web.RespondJSON(w, h.logger, http.StatusOK, resp)
}

func (h *Handler) parseCriteria(w http.ResponseWriter, r *http.Request) (catalog.Criteria, bool) {
	query := r.URL.Query()
	criteria := catalog.DefaultCriteria()
	criteria.SearchQuery = query.Get("q")
	if category := query.Get("category"); category != "" {
		criteria.Category = category
	}
	if brand := query.Get("brand"); brand != "" {
		criteria.Brand = brand
	}

	var ok bool
	if criteria.MinPrice, ok = web.ParseDecimalGte(r, w, h.logger, "min_price", criteria.MinPrice, decimal.Zero); !ok {
		return criteria, false
	}
	if criteria.MaxPrice, ok = web.ParseDecimalGte(r, w, h.logger, "max_price", criteria.MaxPrice, decimal.Zero); !ok {
		return criteria, false
	}
	if criteria.InStockOnly, ok = web.ParseBool(r, w, h.logger, "in_stock"); !ok {
		return criteria, false
	}

	sortKey, err := catalog.ParseSortKey(query.Get("sort"))
	if err != nil {
		web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
		return criteria, false
	}
	criteria.Sort = sortKey
	return criteria, true
}

// GetProduct returns a single catalog product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	product, err := h.catalog.FindByID(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		h.logger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, toProductResponse(product))
}

// Facets returns the category and brand filter options.
func (h *Handler) Facets(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, facetsResponse{
		Categories: catalog.Categories(),
		Brands:     catalog.Brands(),
	})
}
