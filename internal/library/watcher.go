package library

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/lumen/internal/imagestore"
)

// EventCallback is called after a watcher-driven store change.
// kind is one of "added", "updated", "removed".
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the library root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after each
// successful store mutation.
//
// New directories created at runtime are added to the watch list. Rename
// events trigger a debounced rescan that removes stale rows whose files no
// longer exist on disk.
func Watch(ctx context.Context, store imagestore.Store, lib *FS, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, lib.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", lib.Root()))

	var rescanTimer *time.Timer
	var rescanCh <-chan time.Time

	scheduleRescan := func() {
		if rescanTimer == nil {
			rescanTimer = time.NewTimer(200 * time.Millisecond)
			rescanCh = rescanTimer.C
		} else {
			rescanTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if rescanTimer != nil {
				rescanTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-rescanCh:
			if err := Scan(store, lib, logger); err != nil {
				logger.Warn("watcher: rescan failed", slog.String("error", err.Error()))
			} else if cb != nil {
				cb("rescanned", "")
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: watch them and pick up any images inside.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					addImagesInDir(store, lib, absPath, logger, cb)
					continue
				}
			}

			if !IsImageFile(absPath) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if err := upsertFile(store, lib, absPath); err != nil {
					logger.Warn("watcher: upsert failed", slog.String("path", absPath), slog.String("error", err.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "added"
				}
				logger.Debug("watcher: stored", slog.String("path", absPath), slog.String("op", kind))
				if cb != nil {
					cb(kind, absPath)
				}

			case ev.Op&fsnotify.Remove != 0:
				if err := store.DeleteByPath(absPath); err != nil {
					logger.Warn("watcher: delete failed", slog.String("path", absPath), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watcher: removed", slog.String("path", absPath))
				if cb != nil {
					cb("removed", absPath)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only; the new path
				// arrives as a separate Create event if it stays within a
				// watched dir. Drop the old row now and rescan shortly to
				// catch stragglers.
				if err := store.DeleteByPath(absPath); err == nil {
					logger.Debug("watcher: rename old removed", slog.String("path", absPath))
					if cb != nil {
						cb("removed", absPath)
					}
				}
				scheduleRescan()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// upsertFile refreshes the row for abs, keeping the existing id (and with it
// tags and favourite flag) when the path is already stored.
func upsertFile(store imagestore.Store, lib *FS, abs string) error {
	known, err := store.AllPaths()
	if err != nil {
		return err
	}
	id, ok := known[abs]
	if !ok {
		return insertFile(store, lib, abs)
	}
	meta, err := probeFile(abs)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(lib.Root(), abs)
	if err != nil {
		rel = abs
	}
	existing, err := store.GetImageByID(id)
	if err != nil {
		return err
	}
	row := imagestore.RawImage{
		ID:       id,
		Path:     abs,
		FolderID: filepath.Dir(rel),
		Metadata: meta,
	}
	if existing != nil {
		row.ThumbnailPath = existing.ThumbnailPath
		row.Tags = existing.Tags
	}
	return store.UpsertImage(row)
}

// addImagesInDir stores any image files found in a newly created directory.
func addImagesInDir(store imagestore.Store, lib *FS, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsImageFile(d.Name()) {
			return nil
		}
		if upErr := upsertFile(store, lib, path); upErr == nil {
			logger.Debug("watcher: stored from new dir", slog.String("path", path))
			if cb != nil {
				cb("added", path)
			}
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
