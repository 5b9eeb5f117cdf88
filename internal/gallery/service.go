// Package gallery implements the image query service: listing, favourite
// toggling, and download resolution over the image store and library.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/starford/lumen/internal/apperr"
	"github.com/starford/lumen/internal/imagestore"
	"github.com/starford/lumen/internal/library"
	"github.com/starford/lumen/internal/metadata"
	"github.com/starford/lumen/internal/models"
)

// Service coordinates store reads and metadata normalization.
type Service struct {
	store imagestore.Store
	lib   *library.FS
}

// NewService creates a new gallery service.
func NewService(store imagestore.Store, lib *library.FS) *Service {
	return &Service{store: store, lib: lib}
}

// ListImages returns all images, or only those matching the tagged filter
// when it is non-nil. Store order is preserved. A record whose metadata
// fails normalization fails the whole call; no partial results are returned.
func (s *Service) ListImages(_ context.Context, tagged *bool) ([]models.Image, error) {
	rows, err := s.store.ListImages(tagged)
	if err != nil {
		return nil, err
	}
	out := make([]models.Image, 0, len(rows))
	for i := range rows {
		img, err := buildImage(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *img)
	}
	return out, nil
}

// GetImage returns one normalized image by id.
func (s *Service) GetImage(_ context.Context, imageID string) (*models.Image, error) {
	raw, err := s.store.GetImageByID(imageID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("image %s not in store: %w", imageID, apperr.ErrNotFound)
	}
	return buildImage(raw)
}

// ToggleFavourite flips the favourite flag of the image and returns its
// post-toggle state. The state is re-read from the store afterwards rather
// than derived locally, so stores whose update does not return the row are
// still reported accurately.
func (s *Service) ToggleFavourite(_ context.Context, imageID string) (*models.Image, error) {
	applied, err := s.store.ToggleFavourite(imageID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("image %s not found or not toggled: %w", imageID, apperr.ErrNotFound)
	}

	rows, err := s.store.ListImages(nil)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == imageID {
			return buildImage(&rows[i])
		}
	}
	// The toggle applied but the row is gone (concurrent deletion). The
	// caller must not see this as not-found: a 404 would invite a retry of
	// an update that already happened.
	return nil, fmt.Errorf("image %s missing after toggle: %w", imageID, apperr.ErrInternal)
}

// ImageForDownload resolves the on-disk path and suggested filename for an
// image. Unknown ids and ids whose backing file is gone are both not-found,
// logged with distinct messages.
func (s *Service) ImageForDownload(_ context.Context, imageID string) (string, string, error) {
	raw, err := s.store.GetImageByID(imageID)
	if err != nil {
		return "", "", err
	}
	if raw == nil {
		slog.Warn("download: image not in store", slog.String("image_id", imageID))
		return "", "", fmt.Errorf("image %s not in store: %w", imageID, apperr.ErrNotFound)
	}
	abs, err := s.lib.Resolve(raw.Path)
	if err != nil || !s.lib.Exists(raw.Path) {
		slog.Warn("download: file missing on disk",
			slog.String("image_id", imageID),
			slog.String("path", raw.Path))
		return "", "", fmt.Errorf("file for image %s missing on disk: %w", imageID, apperr.ErrNotFound)
	}
	return abs, DownloadFilename(raw.Path), nil
}

// DownloadFilename derives the suggested filename from a stored path,
// accepting both forward- and back-slash separators.
func DownloadFilename(stored string) string {
	return path.Base(strings.ReplaceAll(stored, "\\", "/"))
}

// buildImage normalizes a raw store row into the API-facing view model.
func buildImage(raw *imagestore.RawImage) (*models.Image, error) {
	meta, err := metadata.Normalize(raw.Metadata)
	if err != nil {
		// All-or-nothing listing contract: a malformed stored record is an
		// internal failure, not the caller's validation problem.
		return nil, fmt.Errorf("image %s: %v: %w", raw.ID, err, apperr.ErrInternal)
	}
	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Image{
		ID:            raw.ID,
		Path:          raw.Path,
		FolderID:      raw.FolderID,
		ThumbnailPath: raw.ThumbnailPath,
		Metadata:      *meta,
		IsTagged:      len(tags) > 0,
		IsFavourite:   raw.IsFavourite,
		Tags:          tags,
	}, nil
}
