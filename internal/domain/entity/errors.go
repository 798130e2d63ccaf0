package entity

import "errors"

// Sentinel errors for photo domain operations.
var (
	// ErrPhotoNotFound indicates that the requested photo is not present
	// in the cache. Callers typically fall back to a source fetch or a 404.
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrInvalidPhotoID indicates that the provided photo identity is invalid.
	// Photo identities are opaque non-empty strings.
	ErrInvalidPhotoID = errors.New("invalid photo ID")
)
