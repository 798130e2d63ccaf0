// Package cachectl provides the cache control endpoint the rest of the photo
// app calls after any mutation (uploads, deletions, collection edits).
package cachectl

import (
	"log/slog"
	"net/http"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/requestid"
	"github.com/evelyn-website/family-photo-sub000/internal/observability/logging"
)

// InvalidateHandler clears the whole metadata cache. Invalidation is coarse:
// every fingerprint is dropped regardless of which feed the mutation touched,
// trading refetch cost for a simple always-consistent model.
type InvalidateHandler struct {
	Cache  *cache.Coordinator
	Logger *slog.Logger
}

// ServeHTTP handles POST /cache/invalidate.
func (h InvalidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)
	logger.Info("cache invalidation requested",
		"request_id", requestid.FromContext(r.Context()),
		"remote_addr", r.RemoteAddr)

	h.Cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// Register registers the cache control handlers with the given mux.
func Register(mux *http.ServeMux, coordinator *cache.Coordinator, logger *slog.Logger) {
	mux.Handle("POST /cache/invalidate", InvalidateHandler{Cache: coordinator, Logger: logger})
}
