package library

import (
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/lumen/internal/imagestore"
)

func testStore(t *testing.T) *imagestore.DB {
	t.Helper()
	f, err := os.CreateTemp("", "lumen-scan-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := imagestore.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	abs := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(abs)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return abs
}

// tagImage replaces an image's tag list through the upsert path.
func tagImage(t *testing.T, db *imagestore.DB, id string, tags []string) {
	t.Helper()
	img, err := db.GetImageByID(id)
	if err != nil || img == nil {
		t.Fatalf("fetch %s: %v", id, err)
	}
	img.Tags = tags
	if err := db.UpsertImage(*img); err != nil {
		t.Fatal(err)
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScan_AddsNewFiles(t *testing.T) {
	lib := tempLibrary(t)
	db := testStore(t)
	abs := writePNG(t, lib.Root(), "sub/shot.png", 32, 16)

	if err := Scan(db, lib, discard()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	paths, err := db.AllPaths()
	if err != nil {
		t.Fatal(err)
	}
	id, ok := paths[abs]
	if !ok {
		t.Fatalf("file not stored, paths = %v", paths)
	}

	img, err := db.GetImageByID(id)
	if err != nil || img == nil {
		t.Fatalf("GetImageByID: %v %v", img, err)
	}
	if img.FolderID != "sub" {
		t.Errorf("folder = %q, want sub", img.FolderID)
	}
	if img.Metadata["width"] != float64(32) && img.Metadata["width"] != 32 {
		t.Errorf("width = %v", img.Metadata["width"])
	}
	if img.Metadata["item_type"] != "image/png" {
		t.Errorf("item_type = %v", img.Metadata["item_type"])
	}
}

func TestScan_IsIdempotent(t *testing.T) {
	lib := tempLibrary(t)
	db := testStore(t)
	abs := writePNG(t, lib.Root(), "a.png", 8, 8)

	if err := Scan(db, lib, discard()); err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	paths, _ := db.AllPaths()
	firstID := paths[abs]

	if err := Scan(db, lib, discard()); err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	paths, _ = db.AllPaths()
	if len(paths) != 1 {
		t.Fatalf("len = %d, want 1", len(paths))
	}
	if paths[abs] != firstID {
		t.Error("rescan must keep the existing id")
	}
}

func TestScan_RemovesStaleRows(t *testing.T) {
	lib := tempLibrary(t)
	db := testStore(t)
	abs := writePNG(t, lib.Root(), "gone.png", 8, 8)

	if err := Scan(db, lib, discard()); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if err := os.Remove(abs); err != nil {
		t.Fatal(err)
	}
	if err := Scan(db, lib, discard()); err != nil {
		t.Fatalf("rescan: %v", err)
	}

	paths, _ := db.AllPaths()
	if len(paths) != 0 {
		t.Errorf("stale rows remain: %v", paths)
	}
}

func TestScan_KeepsFavouriteAndTags(t *testing.T) {
	lib := tempLibrary(t)
	db := testStore(t)
	abs := writePNG(t, lib.Root(), "keep.png", 8, 8)

	if err := Scan(db, lib, discard()); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	paths, _ := db.AllPaths()
	id := paths[abs]
	if _, err := db.ToggleFavourite(id); err != nil {
		t.Fatal(err)
	}
	tagImage(t, db, id, []string{"holiday"})

	if err := Scan(db, lib, discard()); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	img, _ := db.GetImageByID(id)
	if !img.IsFavourite {
		t.Error("favourite lost on rescan")
	}
	if len(img.Tags) != 1 || img.Tags[0] != "holiday" {
		t.Errorf("tags lost on rescan: %v", img.Tags)
	}
}

func TestProbeFile_UnknownFormatKeepsZeroDimensions(t *testing.T) {
	lib := tempLibrary(t)
	abs := filepath.Join(lib.Root(), "odd.webp")
	if err := os.WriteFile(abs, []byte("not really webp"), 0o644); err != nil {
		t.Fatal(err)
	}

	meta, err := probeFile(abs)
	if err != nil {
		t.Fatalf("probeFile: %v", err)
	}
	if meta["width"] != 0 || meta["height"] != 0 {
		t.Errorf("dimensions should stay zero: %v %v", meta["width"], meta["height"])
	}
	if meta["name"] != "odd.webp" {
		t.Errorf("name = %v", meta["name"])
	}
}
