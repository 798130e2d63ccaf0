package cache

import (
	"sort"
	"sync"

	"github.com/evelyn-website/family-photo-sub000/internal/domain/entity"
)

// Envelope is the cached pagination result for one fingerprint: the ordered
// page of photos plus the authoritative counts and navigation flags the
// source computed. Envelopes are replaced wholesale on refetch, never
// partially mutated.
//
// Invariants (enforced by the source client before an envelope is accepted):
//
//	TotalPages = max(1, ceil(TotalCount / PageSize))
//	Page       = clamp(RequestedPage, 1, TotalPages)
//	HasNext    = Page < TotalPages
//	HasPrev    = Page > 1
type Envelope struct {
	Photos        []entity.Photo
	RequestedPage int
	Page          int
	PageSize      int
	TotalCount    int64
	TotalPages    int
	HasNext       bool
	HasPrev       bool
}

// PageCorrected reports whether the source clamped the requested page
// (content shrank between fetches, or the client followed a stale bookmark).
func (e Envelope) PageCorrected() bool {
	return e.Page != e.RequestedPage
}

// Store is the metadata cache: a cumulative identity-keyed photo map merged
// from every query that has ever populated it, plus the per-fingerprint
// envelopes and the validity set that says which envelopes may be trusted
// without a refetch.
//
// The store is safe for concurrent use. All three structures are guarded by
// one lock so that InvalidateAll clears them atomically: no reader can
// observe a valid fingerprint whose envelope or photos are already gone.
type Store struct {
	mu        sync.RWMutex
	photos    map[string]entity.Photo
	valid     map[Fingerprint]struct{}
	envelopes map[Fingerprint]Envelope
}

// NewStore creates an empty metadata cache store.
func NewStore() *Store {
	return &Store{
		photos:    make(map[string]entity.Photo),
		valid:     make(map[Fingerprint]struct{}),
		envelopes: make(map[Fingerprint]Envelope),
	}
}

// IsValid reports whether a successful fetch has populated the given
// fingerprint since the last invalidation.
func (s *Store) IsValid(fp Fingerprint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.valid[fp]
	return ok
}

// Envelope returns the cached pagination envelope for a fingerprint.
// The returned envelope holds its own copy of the photo slice, so later
// ingestions cannot mutate a page a caller is still rendering.
func (s *Store) Envelope(fp Fingerprint) (Envelope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env, ok := s.envelopes[fp]
	if !ok {
		return Envelope{}, false
	}
	env.Photos = clonePhotos(env.Photos)
	return env, true
}

// Ingest merges photos into the global identity-keyed map with
// last-write-wins semantics per identity. Photos without an identity are
// dropped; tags are normalized so they are never nil. Ingest alone does not
// touch envelopes or the validity set.
func (s *Store) Ingest(photos []entity.Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merge(photos)
}

// IngestPage merges the envelope's photos into the global map, stores the
// envelope under the fingerprint (replacing any previous one), and marks the
// fingerprint valid. Callers must only invoke this after a successful fetch;
// a failed fetch must leave the fingerprint invalid.
func (s *Store) IngestPage(fp Fingerprint, env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merge(env.Photos)
	env.Photos = clonePhotos(env.Photos)
	for i := range env.Photos {
		env.Photos[i].Normalize()
	}
	s.envelopes[fp] = env
	s.valid[fp] = struct{}{}
}

// ByID returns the cached photo for an identity, if any.
func (s *Store) ByID(id string) (entity.Photo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.photos[id]
	return p, ok
}

// All returns every cached photo, newest first. The result is a snapshot;
// mutating it does not affect the store.
func (s *Store) All() []entity.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	photos := make([]entity.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		photos = append(photos, p)
	}
	sort.Slice(photos, func(i, j int) bool {
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.After(photos[j].CreatedAt)
		}
		return photos[i].ID < photos[j].ID
	})
	return photos
}

// Len returns the number of distinct photos in the global map.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.photos)
}

// InvalidateAll atomically clears the global photo map, the validity set,
// and every envelope. Coarse by design: the underlying collection may have
// changed by another user's action, and freshness outranks cache retention.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = make(map[string]entity.Photo)
	s.valid = make(map[Fingerprint]struct{})
	s.envelopes = make(map[Fingerprint]Envelope)
}

// merge applies last-write-wins ingestion. Caller holds the write lock.
func (s *Store) merge(photos []entity.Photo) {
	for _, p := range photos {
		if p.ID == "" {
			continue
		}
		p.Normalize()
		s.photos[p.ID] = p
	}
}

// clonePhotos copies the slice and the Tags backing arrays, so neither the
// caller nor a later reader shares mutable state with the store.
func clonePhotos(photos []entity.Photo) []entity.Photo {
	cloned := make([]entity.Photo, len(photos))
	copy(cloned, photos)
	for i := range cloned {
		if cloned[i].Tags != nil {
			cloned[i].Tags = append([]string(nil), cloned[i].Tags...)
		}
	}
	return cloned
}
