// Package cache implements the in-memory photo cache and pagination
// consistency layer: an identity-keyed metadata store merged across every
// paginated query, per-fingerprint page envelopes with an explicit validity
// set, a coordinator that decides when a network fetch is required, and a
// payload cache that materializes binary image data into revocable local
// handles.
//
// All state is session-scoped and non-persistent: freshness is prioritized
// over retention, and the only invalidation granularity is the whole cache.
package cache

import "fmt"

// Fingerprint identifies one page of one logical feed for caching purposes.
// Distinct fingerprints never interfere: envelope and validity bookkeeping
// is per-fingerprint, while photo metadata merges globally by identity.
//
// The value is opaque to callers; always construct it via FeedFingerprint
// so that the same (feed, page, size) triple maps to the same key.
type Fingerprint string

// FeedFingerprint builds the fingerprint for one page of a named feed.
func FeedFingerprint(feed string, page, pageSize int) Fingerprint {
	return Fingerprint(fmt.Sprintf("%s:p%d:s%d", feed, page, pageSize))
}
