package cachectl_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
	"github.com/evelyn-website/family-photo-sub000/internal/domain/entity"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/cachectl"
)

func TestInvalidateClearsCache(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store := cache.NewStore()
	coordinator := cache.NewCoordinator(store, nil, nil, logger)

	fp := cache.FeedFingerprint("main", 1, 24)
	store.IngestPage(fp, cache.Envelope{
		Photos:        []entity.Photo{{ID: "p1", Tags: []string{}}},
		RequestedPage: 1,
		Page:          1,
		PageSize:      24,
		TotalCount:    1,
		TotalPages:    1,
	})
	require.True(t, coordinator.IsValid(fp))

	mux := http.NewServeMux()
	cachectl.Register(mux, coordinator, logger)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cache/invalidate", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, coordinator.IsValid(fp))
	assert.Zero(t, coordinator.PhotoCount())
}

func TestInvalidateRejectsGet(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	coordinator := cache.NewCoordinator(cache.NewStore(), nil, nil, logger)

	mux := http.NewServeMux()
	cachectl.Register(mux, coordinator, logger)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cache/invalidate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
