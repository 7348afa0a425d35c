package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/santiago072004/Tienda/internal/contact"
	"github.com/santiago072004/Tienda/pkg/web"
)

const msgContactSent = "¡Mensaje enviado correctamente! Te responderemos pronto."

// SubmitContact validates and sends a contact form message.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var msg contact.Message
	if !web.DecodeJSON(w, r, h.logger, &msg) {
		return
	}

	err := h.contact.Submit(r.Context(), msg)
	var validationErr *contact.ValidationError
	switch {
	case err == nil:
		web.RespondJSON(w, h.logger, http.StatusAccepted, map[string]string{"message": msgContactSent})
	case errors.As(err, &validationErr):
		web.RespondError(w, h.logger, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.WarnContext(r.Context(), "Contact submission aborted", "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, "Request cancelled")
	default:
		h.logger.ErrorContext(r.Context(), "Error submitting contact message", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Hubo un error al enviar el mensaje. Inténtalo de nuevo.")
	}
}
