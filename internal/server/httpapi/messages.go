package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// SendMessage stores a message from the caller.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := h.identify(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var in models.SendMessageInput
	if err := h.decode(w, r, &in); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	m, err := h.messages.Send(r.Context(), id, in)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.logger.Debug(r.Context(), "message sent", "id", m.ID)
	h.respondWithJSON(w, r, http.StatusCreated, map[string]any{"message": m})
}

// GetMessage returns a message to one of its parties.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := h.identify(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	msgID, err := messageID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	m, err := h.messages.Get(r.Context(), id, msgID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, map[string]any{"message": m})
}

// MarkRead marks a message read on behalf of its recipient.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := h.identify(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	msgID, err := messageID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	receipt, err := h.messages.MarkRead(r.Context(), id, msgID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, r, http.StatusOK, map[string]any{"message": receipt})
}
