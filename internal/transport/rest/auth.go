package rest

import (
	"errors"
	"net/http"

	"github.com/santiago072004/Tienda/internal/auth"
	"github.com/santiago072004/Tienda/pkg/web"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthSession returns the auth state of the session.
func (h *Handler) AuthSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, sess.Auth.State())
}

// Login signs the session in. Returns 401 on bad credentials, 409 while
// another login or register of the same session is in flight and 500 if the user store fails.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	store := sess.Auth
	if store.State().IsLoading {
		web.RespondError(w, h.logger, http.StatusConflict, "Another authentication request is in progress")
		return
	}
	if err := store.Login(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			web.RespondError(w, h.logger, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error logging in", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to log in")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, store.State())
}

// Register creates an account and signs the session in. Returns 409 if the email is taken
// and 500 if the user store fails.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	store := sess.Auth
	if store.State().IsLoading {
		web.RespondError(w, h.logger, http.StatusConflict, "Another authentication request is in progress")
		return
	}
	if err := store.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrUserAlreadyExists) {
			web.RespondError(w, h.logger, http.StatusConflict, "User with this email already exists")
			return
		}
		h.logger.ErrorContext(r.Context(), "Error registering user", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to register user")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, store.State())
}

// Logout signs the session out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
