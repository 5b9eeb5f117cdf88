package api

import "github.com/starford/lumen/internal/models"

// ToggleFavouriteRequest is the request body for toggling a favourite.
type ToggleFavouriteRequest struct {
	ImageID string `json:"image_id" example:"4b8c1d2e" validate:"required"`
}

// ListImagesResponse wraps an image listing.
type ListImagesResponse struct {
	Success bool           `json:"success" validate:"required"`
	Message string         `json:"message" validate:"required"`
	Data    []models.Image `json:"data" validate:"required"`
}

// ToggleFavouriteResponse is returned after a successful toggle.
type ToggleFavouriteResponse struct {
	Success     bool   `json:"success" validate:"required"`
	ImageID     string `json:"image_id" validate:"required"`
	IsFavourite bool   `json:"isFavourite" validate:"required"`
}

// ErrorResponse is the structured error body for all failure responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error" validate:"required"`
	Message string `json:"message" validate:"required"`
}
