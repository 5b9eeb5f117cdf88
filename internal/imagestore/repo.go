package imagestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// RawImage is one image row as stored. Metadata is kept as the decoded JSON
// column, untyped; normalization belongs to the service layer.
type RawImage struct {
	ID            string
	Path          string
	FolderID      string
	ThumbnailPath string
	Metadata      map[string]any
	IsFavourite   bool
	Tags          []string
}

const imageColumns = `id, path, folder_id, thumbnail_path, metadata, is_favourite, tags`

// ListImages returns image rows in insertion (rowid) order. When tagged is
// non-nil only rows whose tagged status matches are returned.
func (db *DB) ListImages(tagged *bool) ([]RawImage, error) {
	query := `SELECT ` + imageColumns + ` FROM images`
	if tagged != nil {
		if *tagged {
			query += ` WHERE tags <> '[]'`
		} else {
			query += ` WHERE tags = '[]'`
		}
	}
	query += ` ORDER BY rowid`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("imagestore: list: %w", err)
	}
	defer rows.Close()

	var out []RawImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *img)
	}
	return out, rows.Err()
}

// GetImageByID returns the row for id, or nil when no such image exists.
func (db *DB) GetImageByID(id string) (*RawImage, error) {
	row := db.conn.QueryRow(`SELECT `+imageColumns+` FROM images WHERE id = ?`, id)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ToggleFavourite flips the favourite flag in a single UPDATE and reports
// whether a row was affected. The statement is atomic with respect to
// concurrent toggles on the same id.
func (db *DB) ToggleFavourite(id string) (bool, error) {
	res, err := db.conn.Exec(`UPDATE images SET is_favourite = 1 - is_favourite WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("imagestore: toggle favourite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("imagestore: toggle favourite: %w", err)
	}
	return n == 1, nil
}

// UpsertImage inserts or replaces an image row keyed by id. The favourite
// flag of an existing row is preserved.
func (db *DB) UpsertImage(img RawImage) error {
	metaJSON, err := json.Marshal(img.Metadata)
	if err != nil {
		return fmt.Errorf("imagestore: marshal metadata: %w", err)
	}
	tags := img.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	fav := 0
	if img.IsFavourite {
		fav = 1
	}
	_, err = db.conn.Exec(`
		INSERT INTO images (id, path, folder_id, thumbnail_path, metadata, is_favourite, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path           = excluded.path,
			folder_id      = excluded.folder_id,
			thumbnail_path = excluded.thumbnail_path,
			metadata       = excluded.metadata,
			tags           = excluded.tags
	`, img.ID, img.Path, img.FolderID, img.ThumbnailPath, string(metaJSON), fav, string(tagsJSON))
	if err != nil {
		return fmt.Errorf("imagestore: upsert: %w", err)
	}
	return nil
}

// DeleteImage removes an image row by id.
func (db *DB) DeleteImage(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM images WHERE id = ?`, id); err != nil {
		return fmt.Errorf("imagestore: delete: %w", err)
	}
	return nil
}

// DeleteByPath removes the image row backed by the given file path.
func (db *DB) DeleteByPath(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM images WHERE path = ?`, path); err != nil {
		return fmt.Errorf("imagestore: delete by path: %w", err)
	}
	return nil
}

// AllPaths returns every stored file path mapped to its image id.
func (db *DB) AllPaths() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, id FROM images`)
	if err != nil {
		return nil, fmt.Errorf("imagestore: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, id string
		if err := rows.Scan(&p, &id); err != nil {
			return nil, err
		}
		out[p] = id
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*RawImage, error) {
	var (
		img      RawImage
		metaJSON string
		tagsJSON string
		fav      int
	)
	err := row.Scan(&img.ID, &img.Path, &img.FolderID, &img.ThumbnailPath, &metaJSON, &fav, &tagsJSON)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("imagestore: scan: %w", err)
	}
	img.IsFavourite = fav != 0
	if metaJSON != "" {
		if err := json.Unmarshal([]byte(metaJSON), &img.Metadata); err != nil {
			return nil, fmt.Errorf("imagestore: decode metadata for %s: %w", img.ID, err)
		}
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &img.Tags); err != nil {
			return nil, fmt.Errorf("imagestore: decode tags for %s: %w", img.ID, err)
		}
	}
	return &img, nil
}
