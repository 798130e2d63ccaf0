// Package feed provides HTTP handlers for paginated feed endpoints.
package feed

import (
	"time"

	"github.com/evelyn-website/family-photo-sub000/internal/domain/entity"
)

// PhotoDTO represents the JSON structure for photo data transfer.
type PhotoDTO struct {
	ID          string    `json:"id" example:"ph_8f3a"`
	Title       string    `json:"title" example:"Beach sunset"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	DisplayURL  string    `json:"display_url" example:"https://img.example/ph_8f3a.jpg"`
	BlobURL     string    `json:"blob_url,omitempty" example:"/blobs/ph_8f3a"`
	AuthorName  string    `json:"author_name,omitempty"`
	CreatedAt   time.Time `json:"created_at" example:"2026-07-01T10:00:00Z"`
}

// toDTO converts a photo entity to its transfer representation. hasBlob
// controls whether the local blob route is advertised; consumers without a
// materialized payload fall back to the remote display URL.
func toDTO(p entity.Photo, hasBlob bool) PhotoDTO {
	dto := PhotoDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        p.Tags,
		DisplayURL:  p.DisplayURL,
		AuthorName:  p.AuthorName,
		CreatedAt:   p.CreatedAt,
	}
	if hasBlob {
		dto.BlobURL = "/blobs/" + p.ID
	}
	return dto
}
