package accounts

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers chart of accounts endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{code}", h.Show)
		r.Put("/{code}", h.Update)
		r.Delete("/{code}", h.Delete)
	})
}
