package web

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers the GUI routes on the router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.Index)
}
