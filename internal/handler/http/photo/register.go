package photo

import (
	"net/http"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
)

// Register registers the photo HTTP handlers with the given mux.
func Register(mux *http.ServeMux, coordinator *cache.Coordinator) {
	mux.Handle("GET /photos/{id}", GetHandler{Cache: coordinator})
	mux.Handle("GET /blobs/{id}", BlobHandler{Cache: coordinator})
}
