// Package models defines the domain types for Lumen.
package models

// Metadata holds the descriptive facts about one image file.
// Optional fields are pointers and stay nil when the source record
// does not carry them; each geolocation field is independently optional.
type Metadata struct {
	Name         string   `json:"name"`
	DateCreated  *string  `json:"date_created"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	FileLocation string   `json:"file_location"`
	FileSize     int64    `json:"file_size"`
	ItemType     string   `json:"item_type"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Location     *string  `json:"location,omitempty"`
}

// Image represents one managed asset in the gallery.
type Image struct {
	ID            string   `json:"id"`
	Path          string   `json:"path"`
	FolderID      string   `json:"folder_id"`
	ThumbnailPath string   `json:"thumbnailPath"`
	Metadata      Metadata `json:"metadata"`
	IsTagged      bool     `json:"isTagged"`
	IsFavourite   bool     `json:"isFavourite"`
	Tags          []string `json:"tags"`
}
