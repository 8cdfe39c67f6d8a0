// Package httpapi exposes the user and message services as a JSON API
// routed with chi.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/services"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// UserService is the subset of services.UserService the API needs.
type UserService interface {
	Register(ctx context.Context, in models.RegisterInput) (*services.Registration, error)
	Login(ctx context.Context, in models.LoginInput) (string, error)
	Identify(token string) (models.Identity, error)
	List(ctx context.Context, id models.Identity) ([]models.UserSummary, error)
	Get(ctx context.Context, id models.Identity, username string) (*models.User, error)
}

// MessageService is the subset of services.MessageService the API needs.
type MessageService interface {
	Send(ctx context.Context, id models.Identity, in models.SendMessageInput) (*models.Message, error)
	Get(ctx context.Context, id models.Identity, msgID int64) (*models.MessageDetail, error)
	MarkRead(ctx context.Context, id models.Identity, msgID int64) (*models.ReadReceipt, error)
	ListFrom(ctx context.Context, id models.Identity, username string) ([]models.SentMessage, error)
	ListTo(ctx context.Context, id models.Identity, username string) ([]models.ReceivedMessage, error)
}

// Handler serves the HTTP endpoints.
type Handler struct {
	users    UserService
	messages MessageService
	logger   logging.Logger
}

// NewHandler creates a Handler.
func NewHandler(us UserService, ms MessageService, l logging.Logger) *Handler {
	return &Handler{
		users:    us,
		messages: ms,
		logger:   l.With("module", "http_api"),
	}
}

// identify resolves the caller from the bearer header. A missing header
// yields the zero identity so the services report ErrorUnauthenticated;
// a present but unverifiable token fails immediately.
func (h *Handler) identify(r *http.Request) (models.Identity, error) {
	v := r.Header.Get(common.AuthorizationHeaderName)
	if v == "" {
		return models.Identity{}, nil
	}
	if !strings.HasPrefix(v, common.BearerPrefix) {
		return models.Identity{}, common.ErrorUnauthenticated
	}
	return h.users.Identify(strings.TrimSpace(strings.TrimPrefix(v, common.BearerPrefix)))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return common.NewValidationError("body", "malformed JSON")
	}
	return nil
}

// respondWithJSON sends payload as JSON with the given status code.
func (h *Handler) respondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error(r.Context(), "failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		h.logger.Error(r.Context(), "failed to write HTTP response", "error", err)
	}
}

// respondWithError maps err onto a status code and an {"error": ...} body.
// Unexpected errors are logged and reported generically.
func (h *Handler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	h.respondWithJSON(w, r, code, map[string]string{"error": msg})
}

func statusFor(err error) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, common.ErrorValidation.Error()
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized, common.ErrorUnauthenticated.Error()
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, common.ErrorForbidden.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.ErrorNotFound.Error()
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, common.ErrorConflict.Error()
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
