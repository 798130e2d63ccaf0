// Package entity defines the core domain entities for the photo gateway.
// It contains the Photo record shape shared by the cache, the source client,
// and the HTTP handlers, along with validation rules and domain errors.
package entity

import "time"

// Photo represents one photo's metadata as known to the cache.
// The binary payload itself is handled separately by the payload cache;
// DisplayURL points at the remotely hosted image when one has been resolved.
type Photo struct {
	ID          string
	CreatedAt   time.Time
	OwnerID     string
	Title       string
	Description string
	Tags        []string
	DisplayURL  string
	AuthorName  string
	AuthorEmail string
}

// Normalize enforces representation invariants on the photo.
// Tags are always a non-nil slice: an absent tag list becomes an empty one.
func (p *Photo) Normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// Validate checks that the photo satisfies the minimal invariants required
// for it to be cached. Returns ErrInvalidPhotoID when the identity is empty.
func (p Photo) Validate() error {
	if p.ID == "" {
		return ErrInvalidPhotoID
	}
	return nil
}
