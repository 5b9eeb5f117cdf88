package library

import (
	"fmt"
	"net/http"
)

// ServeDownload streams the file at abs as an attachment named filename.
// Range handling and caching headers come from net/http's file server.
func ServeDownload(w http.ResponseWriter, r *http.Request, abs, filename string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, abs)
}
