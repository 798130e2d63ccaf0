package photo

import (
	"errors"
	"net/http"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
	"github.com/evelyn-website/family-photo-sub000/internal/domain/entity"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/respond"
)

// BlobHandler serves materialized photo payloads. Payload caching is
// best-effort, so a missing handle is not an error: the handler redirects to
// the photo's remote display URL instead, and only 404s when the photo
// itself is unknown.
type BlobHandler struct {
	Cache *cache.Coordinator
}

// ServeHTTP handles GET /blobs/{id}.
func (h BlobHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if handle, ok := h.Cache.ImageHandle(id); ok {
		w.Header().Set("Content-Type", handle.ContentType())
		w.Header().Set("Cache-Control", "private, max-age=3600")
		http.ServeFile(w, r, handle.LocalPath())
		return
	}

	p, err := h.Cache.Photo(id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInvalidPhotoID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, entity.ErrPhotoNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	if p.DisplayURL == "" {
		respond.SafeError(w, http.StatusNotFound, entity.ErrPhotoNotFound)
		return
	}

	// Schedule materialization so the next request can be served locally.
	h.Cache.PreloadImage(p.ID, p.DisplayURL)
	http.Redirect(w, r, p.DisplayURL, http.StatusFound)
}
