package feed

import (
	"log/slog"
	"net/http"

	"github.com/evelyn-website/family-photo-sub000/internal/common/pagination"
	"github.com/evelyn-website/family-photo-sub000/internal/view"
)

// Register registers the feed HTTP handlers with the given mux.
func Register(mux *http.ServeMux, provider view.PageProvider, blobs BlobChecker, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /feeds/{feed}", NewListHandler(provider, blobs, paginationCfg, logger))
}
