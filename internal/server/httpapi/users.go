package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// Register creates an account and returns it together with a token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := h.decode(w, r, &in); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	reg, err := h.users.Register(r.Context(), in)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "username", reg.User.Username)
	h.respondWithJSON(w, r, http.StatusCreated, reg)
}

// Login exchanges credentials for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := h.decode(w, r, &in); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), in)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, map[string]string{"token": token})
}

// ListUsers returns the directory.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	id, err := h.identify(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	list, err := h.users.List(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, map[string]any{"users": list})
}

// GetUser returns the caller's own profile.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.identify(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	u, err := h.users.Get(r.Context(), id, chi.URLParam(r, "username"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, map[string]any{"user": u})
}

// ListTo returns messages received by the caller.
func (h *Handler) ListTo(w http.ResponseWriter, r *http.Request) {
	id, err := h.identify(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	msgs, err := h.messages.ListTo(r.Context(), id, chi.URLParam(r, "username"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, map[string]any{"messages": msgs})
}

// ListFrom returns messages sent by the caller.
func (h *Handler) ListFrom(w http.ResponseWriter, r *http.Request) {
	id, err := h.identify(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	msgs, err := h.messages.ListFrom(r.Context(), id, chi.URLParam(r, "username"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, map[string]any{"messages": msgs})
}
