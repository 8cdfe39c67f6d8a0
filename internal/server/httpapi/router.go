package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires the endpoints behind request id, logging, panic recovery
// and a per-request timeout.
func (h *Handler) Router(timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/healthz", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Get("/{username}", h.GetUser)
		r.Get("/{username}/to", h.ListTo)
		r.Get("/{username}/from", h.ListFrom)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Post("/", h.SendMessage)
		r.Get("/{id}", h.GetMessage)
		r.Post("/{id}/read", h.MarkRead)
	})

	return r
}
