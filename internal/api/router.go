package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/lumen/internal/gallery"
)

// NewRouter creates a chi router with all image routes mounted. onEvent is
// invoked after mutations so callers can broadcast them; nil disables it.
func NewRouter(svc *gallery.Service, onEvent EventFunc) chi.Router {
	h := NewHandler(svc, onEvent)

	r := chi.NewRouter()
	r.Get("/", h.ListImages)
	r.Post("/toggle-favourite", h.ToggleFavourite)
	r.Get("/download/{image_id}", h.Download)

	return r
}
