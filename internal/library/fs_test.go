package library

import (
	"os"
	"path/filepath"
	"testing"
)

func tempLibrary(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	lib, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return lib
}

func writeFile(t *testing.T, lib *FS, rel string, data []byte) string {
	t.Helper()
	abs := filepath.Join(lib.Root(), rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return abs
}

func TestResolve_RelativeAndAbsolute(t *testing.T) {
	lib := tempLibrary(t)
	abs := writeFile(t, lib, "sub/photo.jpg", []byte("x"))

	got, err := lib.Resolve("sub/photo.jpg")
	if err != nil {
		t.Fatalf("Resolve relative: %v", err)
	}
	if got != abs {
		t.Errorf("resolved = %q, want %q", got, abs)
	}

	got, err = lib.Resolve(abs)
	if err != nil {
		t.Fatalf("Resolve absolute: %v", err)
	}
	if got != abs {
		t.Errorf("resolved = %q, want %q", got, abs)
	}
}

func TestResolve_BackslashSeparators(t *testing.T) {
	lib := tempLibrary(t)
	abs := writeFile(t, lib, "sub/photo.jpg", []byte("x"))

	got, err := lib.Resolve(`sub\photo.jpg`)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != abs {
		t.Errorf("resolved = %q, want %q", got, abs)
	}
}

func TestResolve_TraversalBlocked(t *testing.T) {
	lib := tempLibrary(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.jpg",
		"/etc/shadow",
		"",
	}
	for _, p := range cases {
		if _, err := lib.Resolve(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
	}
}

func TestExists(t *testing.T) {
	lib := tempLibrary(t)
	writeFile(t, lib, "a.jpg", []byte("x"))

	if !lib.Exists("a.jpg") {
		t.Error("expected a.jpg to exist")
	}
	if lib.Exists("missing.jpg") {
		t.Error("missing.jpg should not exist")
	}
	if lib.Exists("../a.jpg") {
		t.Error("escaping path should not exist")
	}
}

func TestList(t *testing.T) {
	lib := tempLibrary(t)
	writeFile(t, lib, "a.jpg", []byte("a"))
	writeFile(t, lib, "sub/b.PNG", []byte("b"))
	writeFile(t, lib, "notes.txt", []byte("not an image"))

	files, err := lib.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("len = %d, want 2", len(files))
	}
	for _, fi := range files {
		if fi.RelPath == "" || fi.Size == 0 {
			t.Errorf("incomplete file info: %+v", fi)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	yes := []string{"a.jpg", "b.JPEG", "c.png", "d.webp", "photo.gif"}
	no := []string{"a.txt", "b.md", "noext", "d.jpg.part"}
	for _, n := range yes {
		if !IsImageFile(n) {
			t.Errorf("%q should be an image file", n)
		}
	}
	for _, n := range no {
		if IsImageFile(n) {
			t.Errorf("%q should not be an image file", n)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS("/tmp/lumen-does-not-exist-" + t.Name()); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "lumen-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
