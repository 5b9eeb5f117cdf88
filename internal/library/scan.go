package library

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/starford/lumen/internal/imagestore"
)

// Scan walks the library and brings the store up to date:
//   - files not yet in the store are probed and inserted
//   - rows whose file no longer exists on disk are removed
//
// Existing rows keep their id, tags, and favourite flag.
func Scan(store imagestore.Store, lib *FS, logger *slog.Logger) error {
	files, err := lib.List()
	if err != nil {
		return err
	}

	known, err := store.AllPaths()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(files))
	for _, fi := range files {
		disk[fi.Path] = struct{}{}

		if _, ok := known[fi.Path]; ok {
			continue
		}
		if err := insertFile(store, lib, fi.Path); err != nil {
			logger.Warn("scan: insert failed", slog.String("path", fi.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("scan: added", slog.String("path", fi.Path))
		}
	}

	// Remove rows whose file vanished.
	for p, id := range known {
		if _, ok := disk[p]; !ok {
			if err := store.DeleteImage(id); err != nil {
				logger.Warn("scan: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("scan: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// insertFile probes abs and inserts a fresh row with a generated id.
func insertFile(store imagestore.Store, lib *FS, abs string) error {
	meta, err := probeFile(abs)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(lib.Root(), abs)
	if err != nil {
		rel = abs
	}
	return store.UpsertImage(imagestore.RawImage{
		ID:       uuid.NewString(),
		Path:     abs,
		FolderID: filepath.Dir(rel),
		Metadata: meta,
	})
}

// probeFile builds the raw metadata record for an image file. Dimensions come
// from the image header when a registered decoder understands the format;
// otherwise they stay zero.
func probeFile(abs string) (map[string]any, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	itemType := mime.TypeByExtension(filepath.Ext(abs))
	if itemType == "" {
		itemType = "application/octet-stream"
	}

	meta := map[string]any{
		"name":          filepath.Base(abs),
		"width":         0,
		"height":        0,
		"file_location": abs,
		"file_size":     info.Size(),
		"item_type":     itemType,
		"date_created":  info.ModTime().Format(time.RFC3339),
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if cfg, _, err := image.DecodeConfig(f); err == nil {
		meta["width"] = cfg.Width
		meta["height"] = cfg.Height
	}

	return meta, nil
}
