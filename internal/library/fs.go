// Package library provides access to the image library directory: safe path
// resolution, scanning, change watching, and original-file delivery.
package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// imageExts lists the file extensions treated as library images.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
}

// FileInfo describes one image file found on disk.
type FileInfo struct {
	Path    string // absolute path
	RelPath string // path relative to the library root
	Size    int64
	ModTime time.Time
}

// FS is rooted at the library directory.
type FS struct {
	root string // absolute path to the library directory
}

// NewFS creates a new FS rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("library: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("library: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute library root.
func (f *FS) Root() string {
	return f.root
}

// Resolve maps a stored file path (absolute or relative to the root) to an
// absolute path and rejects any result that escapes the library root.
// Stored paths may use backslash separators.
func (f *FS) Resolve(stored string) (string, error) {
	if stored == "" {
		return "", fmt.Errorf("library: empty path")
	}
	cleaned := filepath.Clean(strings.ReplaceAll(stored, "\\", "/"))
	if !filepath.IsAbs(cleaned) {
		cleaned = filepath.Join(f.root, cleaned)
	}
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("library: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("library: path escapes library root: %s", stored)
	}
	return abs, nil
}

// Exists reports whether the stored path resolves to a regular file on disk.
func (f *FS) Exists(stored string) bool {
	abs, err := f.Resolve(stored)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// List walks the library root and returns every image file.
func (f *FS) List() ([]FileInfo, error) {
	var out []FileInfo
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !IsImageFile(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(f.root, p)
		out = append(out, FileInfo{
			Path:    p,
			RelPath: rel,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("library: list: %w", err)
	}
	return out, nil
}

// IsImageFile reports whether the filename has a recognised image extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
