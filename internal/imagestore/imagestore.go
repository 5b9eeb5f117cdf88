package imagestore

// Store defines the interface for image record operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Store interface {
	ListImages(tagged *bool) ([]RawImage, error)
	GetImageByID(id string) (*RawImage, error)
	ToggleFavourite(id string) (bool, error)
	UpsertImage(img RawImage) error
	DeleteImage(id string) error
	DeleteByPath(path string) error
	AllPaths() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
