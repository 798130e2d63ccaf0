// Package photo provides HTTP handlers for single-photo endpoints: cached
// metadata lookup and materialized payload serving.
package photo

import (
	"errors"
	"net/http"
	"time"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
	"github.com/evelyn-website/family-photo-sub000/internal/domain/entity"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/respond"
)

// DTO represents the JSON structure for single-photo data transfer.
type DTO struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	DisplayURL  string    `json:"display_url"`
	AuthorName  string    `json:"author_name,omitempty"`
	AuthorEmail string    `json:"author_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetHandler serves one cached photo by identity.
type GetHandler struct {
	Cache *cache.Coordinator
}

// ServeHTTP handles GET /photos/{id}. The lookup is cache-only: a photo the
// gateway has never seen in a feed page is a 404 even if the backend knows it.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, err := h.Cache.Photo(r.PathValue("id"))
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

	respond.JSON(w, http.StatusOK, DTO{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        p.Tags,
		DisplayURL:  p.DisplayURL,
		AuthorName:  p.AuthorName,
		AuthorEmail: p.AuthorEmail,
		CreatedAt:   p.CreatedAt,
	})
}
