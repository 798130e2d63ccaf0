package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/evelyn-website/family-photo-sub000/internal/common/pagination"
	"github.com/evelyn-website/family-photo-sub000/internal/domain/entity"
	"github.com/evelyn-website/family-photo-sub000/internal/observability/tracing"
)

// PhotoSource answers paginated photo queries. It is the external
// collaborator boundary: implementations must return envelopes that satisfy
// the pagination.Resolve invariants (the source client validates this).
type PhotoSource interface {
	FetchPage(ctx context.Context, feed string, page, pageSize int) (Envelope, error)
}

// FetchRequest is the coordinator's tagged fetch decision for a fingerprint:
// either the cached envelope may be served as-is (skip), or a query with the
// given parameters must be issued. Using a first-class value instead of a
// sentinel string makes the skip condition directly testable.
type FetchRequest struct {
	fetch       bool
	Fingerprint Fingerprint
	Feed        string
	Page        int
	PageSize    int
}

// SkipFetch returns the decision that no network fetch is required.
func SkipFetch() FetchRequest {
	return FetchRequest{}
}

// RequestFetch returns the decision that a query must be issued for the
// given feed page.
func RequestFetch(feed string, page, pageSize int) FetchRequest {
	return FetchRequest{
		fetch:       true,
		Fingerprint: FeedFingerprint(feed, page, pageSize),
		Feed:        feed,
		Page:        page,
		PageSize:    pageSize,
	}
}

// ShouldFetch reports whether a network fetch is required.
func (r FetchRequest) ShouldFetch() bool { return r.fetch }

// Coordinator decides, per fingerprint, whether a fresh fetch is required or
// the stored envelope can be served, merges fetched results into the store,
// and triggers payload materialization for newly-seen photos.
//
// Mutation of the shared caches goes exclusively through the coordinator
// (EnsurePage, SetPhotos, UpdatePhoto, Invalidate) and the payload cache's
// Materialize; every other component only reads.
type Coordinator struct {
	store    *Store
	payloads *PayloadCache
	source   PhotoSource
	logger   *slog.Logger
}

// NewCoordinator wires the coordinator to its store, payload cache, and
// photo source.
func NewCoordinator(store *Store, payloads *PayloadCache, source PhotoSource, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		store:    store,
		payloads: payloads,
		source:   source,
		logger:   logger,
	}
}

// Plan returns the tagged fetch decision for one feed page: skip when the
// fingerprint is valid, fetch otherwise.
func (c *Coordinator) Plan(feed string, page, pageSize int) FetchRequest {
	if c.store.IsValid(FeedFingerprint(feed, page, pageSize)) {
		return SkipFetch()
	}
	return RequestFetch(feed, page, pageSize)
}

// EnsurePage returns the envelope for one feed page, fetching from the
// source only when the fingerprint is invalid. On fetch failure the
// fingerprint stays invalid and the error is returned; the caller decides
// whether to surface it or fall back to stale state.
//
// While a fingerprint stays valid, repeated calls return identical content
// with no network traffic: cached pages only change through invalidation.
func (c *Coordinator) EnsurePage(ctx context.Context, feed string, page, pageSize int) (Envelope, error) {
	start := time.Now()

	req := c.Plan(feed, page, pageSize)
	if !req.ShouldFetch() {
		if env, ok := c.store.Envelope(FeedFingerprint(feed, page, pageSize)); ok {
			RecordPageLookup("hit")
			return env, nil
		}
		// Validity without an envelope cannot normally happen; recover by
		// treating it as a miss.
		req = RequestFetch(feed, page, pageSize)
	}
	RecordPageLookup("miss")

	ctx, span := tracing.GetTracer().Start(ctx, "cache.fetch_page")
	span.SetAttributes(
		attribute.String("feed", feed),
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	)
	defer span.End()

	env, err := c.source.FetchPage(ctx, feed, page, pageSize)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Envelope{}, fmt.Errorf("fetch page %d of feed %q: %w", page, feed, err)
	}
	env.RequestedPage = page
	if env.PageCorrected() {
		pagination.RecordClamp()
	}

	for i := range env.Photos {
		env.Photos[i].Normalize()
	}
	c.store.IngestPage(req.Fingerprint, env)
	UpdatePhotoCount(c.store.Len())

	for _, p := range env.Photos {
		if p.DisplayURL != "" {
			c.payloads.Materialize(p.ID, p.DisplayURL)
		}
	}

	pagination.RecordDuration("coordinator", time.Since(start).Seconds())
	c.logger.Debug("feed page fetched",
		slog.String("feed", feed),
		slog.Int("requested_page", page),
		slog.Int("page", env.Page),
		slog.Int("photos", len(env.Photos)),
		slog.Int64("total", env.TotalCount))

	return env, nil
}

// Invalidate clears the entire cache: photo map, validity set, and all
// envelopes. Called after any mutation elsewhere in the app (uploads,
// deletions, collection edits) and by the periodic freshness sweep.
func (c *Coordinator) Invalidate() {
	c.store.InvalidateAll()
	UpdatePhotoCount(0)
	RecordInvalidation()
	c.logger.Info("photo cache invalidated")
}

// Photo returns the cached photo for an identity.
// Returns entity.ErrPhotoNotFound when the identity is unknown.
func (c *Coordinator) Photo(id string) (entity.Photo, error) {
	if id == "" {
		return entity.Photo{}, entity.ErrInvalidPhotoID
	}
	p, ok := c.store.ByID(id)
	if !ok {
		return entity.Photo{}, entity.ErrPhotoNotFound
	}
	return p, nil
}

// PhotoCount returns the number of distinct photos in the metadata map.
func (c *Coordinator) PhotoCount() int {
	return c.store.Len()
}

// AllPhotos returns every cached photo, newest first.
func (c *Coordinator) AllPhotos() []entity.Photo {
	return c.store.All()
}

// CachedPage returns the stored envelope for a fingerprint without any
// fetch, valid or not.
func (c *Coordinator) CachedPage(fp Fingerprint) (Envelope, bool) {
	return c.store.Envelope(fp)
}

// IsValid reports whether a fingerprint's envelope may be served without a
// refetch.
func (c *Coordinator) IsValid(fp Fingerprint) bool {
	return c.store.IsValid(fp)
}

// SetPhotos merges photos into the metadata map without touching envelopes.
// Used by callers that learn about photos outside a paginated query (e.g. a
// single-photo detail fetch). Like the fetch path, it schedules payload
// materialization for every merged photo that has a display URL; Materialize
// skips identities that already hold a handle or are in flight.
func (c *Coordinator) SetPhotos(photos []entity.Photo) {
	c.store.Ingest(photos)
	UpdatePhotoCount(c.store.Len())

	for _, p := range photos {
		if p.ID != "" && p.DisplayURL != "" {
			c.payloads.Materialize(p.ID, p.DisplayURL)
		}
	}
}

// UpdatePhoto merges a single photo record, last write wins.
func (c *Coordinator) UpdatePhoto(p entity.Photo) {
	c.SetPhotos([]entity.Photo{p})
}

// PreloadImage schedules payload materialization for a photo without
// waiting for it to appear in a feed page.
func (c *Coordinator) PreloadImage(id, remoteURL string) {
	c.payloads.Materialize(id, remoteURL)
}

// ImageHandle returns the materialized payload handle for a photo, if any.
// Consumers that get no handle fall back to the photo's remote DisplayURL.
func (c *Coordinator) ImageHandle(id string) (*Handle, bool) {
	return c.payloads.HandleFor(id)
}
