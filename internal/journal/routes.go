package journal

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers journal endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Patch("/{id}", h.UpdateHeader)
		r.Delete("/{id}", h.Delete)
	})
}
