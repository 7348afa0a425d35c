// Package rest exposes the storefront over HTTP.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/santiago072004/Tienda/internal/catalog"
	"github.com/santiago072004/Tienda/internal/contact"
	"github.com/santiago072004/Tienda/internal/session"
	"github.com/santiago072004/Tienda/pkg/web"
)

type Handler struct {
	catalog  *catalog.Catalog
	sessions *session.Registry
	contact  *contact.Service
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates the storefront API handler.
func NewHandler(c *catalog.Catalog, sessions *session.Registry, contactService *contact.Service, validate *validator.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:  c,
		sessions: sessions,
		contact:  contactService,
		validate: validate,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the storefront API under /api/v1 and the health check.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(web.SessionID)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{id}", h.GetProduct)
		})
		r.Get("/catalog/facets", h.Facets)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Get("/summary", h.CartSummary)
			r.Post("/items", h.AddCartItem)
			r.Put("/items/{id}", h.UpdateCartItem)
			r.Delete("/items/{id}", h.RemoveCartItem)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/session", h.AuthSession)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/logout", h.Logout)
		})

		r.Post("/contact", h.SubmitContact)
	})

	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// session returns the client session of the request.
// If its persisted state cannot be read it writes a 503 response and returns false.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, _ := web.GetSessionID(r.Context())
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error loading session", "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Session storage unavailable")
		return nil, false
	}
	return sess, true
}

// decodeAndValidate decodes the JSON body into dst and validates it.
// On failure it writes a 400 response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !web.DecodeJSON(w, r, h.logger, dst) {
		return false
	}
	err := h.validate.Struct(dst)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorResponse := make(map[string]string, len(validationErrors))
		for _, fieldErr := range validationErrors {
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return false
	}
	h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
	return false
}
