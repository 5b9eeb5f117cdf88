// Package testutil provides shared test helpers for setting up libraries and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/lumen/internal/imagestore"
	"github.com/starford/lumen/internal/library"
)

// TestDB creates a temporary SQLite image store that is automatically cleaned up.
func TestDB(t *testing.T) *imagestore.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "lumen-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := imagestore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLibrary creates a temporary library directory with a library.FS.
func TestLibrary(t *testing.T) (string, *library.FS) {
	t.Helper()
	dir := t.TempDir()
	lib, err := library.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, lib
}
