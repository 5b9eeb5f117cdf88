// Package api implements the Lumen REST API using chi.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/lumen/internal/apperr"
	"github.com/starford/lumen/internal/gallery"
	"github.com/starford/lumen/internal/library"
)

// EventFunc is called after a handler-driven store change. It has the same
// shape as the library watcher callback so both can feed one broker.
type EventFunc func(kind, path string)

// Handler holds API route handlers.
type Handler struct {
	svc     *gallery.Service
	onEvent EventFunc
}

// NewHandler creates a new Handler. onEvent may be nil.
func NewHandler(svc *gallery.Service, onEvent EventFunc) *Handler {
	return &Handler{svc: svc, onEvent: onEvent}
}

// ListImages handles GET /.
//
//	@Summary		List images with an optional tagged filter
//	@Tags			images
//	@Produce		json
//	@Param			tagged	query		bool	false	"Filter by tagged status"
//	@Success		200		{object}	ListImagesResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/ [get]
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	var tagged *bool
	if raw := r.URL.Query().Get("tagged"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("validation failed", "tagged must be a boolean"))
			return
		}
		tagged = &v
	}

	imgs, err := h.svc.ListImages(r.Context(), tagged)
	if err != nil {
		slog.Error("list images failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListImagesResponse{
		Success: true,
		Message: fmt.Sprintf("successfully retrieved %d images", len(imgs)),
		Data:    imgs,
	})
}

// ToggleFavourite handles POST /toggle-favourite.
//
//	@Summary		Toggle the favourite flag of an image
//	@Tags			images
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ToggleFavouriteRequest	true	"Image to toggle"
//	@Success		200		{object}	ToggleFavouriteResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/toggle-favourite [post]
func (h *Handler) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ToggleFavouriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("validation failed", "invalid JSON body"))
		return
	}
	if req.ImageID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("validation failed", "image_id is required"))
		return
	}

	img, err := h.svc.ToggleFavourite(r.Context(), req.ImageID)
	if err != nil {
		slog.Error("toggle favourite failed",
			slog.String("image_id", req.ImageID),
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if h.onEvent != nil {
		h.onEvent("favourite", img.Path)
	}
	writeJSON(w, http.StatusOK, ToggleFavouriteResponse{
		Success:     true,
		ImageID:     img.ID,
		IsFavourite: img.IsFavourite,
	})
}

// Download handles GET /download/{image_id}.
//
//	@Summary		Download the original image file
//	@Tags			images
//	@Produce		octet-stream
//	@Param			image_id	path	string	true	"Image id"
//	@Success		200		"Binary stream with attachment filename"
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/download/{image_id} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "image_id")
	abs, filename, err := h.svc.ImageForDownload(r.Context(), imageID)
	if err != nil {
		slog.Error("download failed",
			slog.String("image_id", imageID),
			slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	library.ServeDownload(w, r, abs, filename)
}

// writeError maps a service error to the status code and structured body of
// its kind. Anything outside the closed kind set is an internal error.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody("validation failed", err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found", err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody("internal server error", err.Error()))
	}
}
