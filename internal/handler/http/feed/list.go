package feed

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
	"github.com/evelyn-website/family-photo-sub000/internal/common/pagination"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/requestid"
	"github.com/evelyn-website/family-photo-sub000/internal/handler/http/respond"
	"github.com/evelyn-website/family-photo-sub000/internal/observability/logging"
	"github.com/evelyn-website/family-photo-sub000/internal/view"
)

// PageCorrectedHeader carries the server-adopted page number when the
// requested page had to be clamped. Clients use it to fix addressable state
// (URL query, bookmarks) without diffing the response body.
const PageCorrectedHeader = "X-Page-Corrected"

// StaleHeader marks a response served from the last settled envelope after a
// fetch failure.
const StaleHeader = "X-Stale"

// BlobChecker reports whether a local payload handle exists for a photo.
type BlobChecker interface {
	ImageHandle(id string) (*cache.Handle, bool)
}

// ListHandler serves paginated feed pages through per-feed view controllers.
// Controllers are created lazily and live for the handler's lifetime, so a
// feed keeps its reconciliation state (including its stale fallback) across
// requests.
type ListHandler struct {
	Provider      view.PageProvider
	Blobs         BlobChecker
	PaginationCfg pagination.Config
	Logger        *slog.Logger

	mu          sync.Mutex
	controllers map[string]*view.Controller
}

// NewListHandler creates the feed list handler.
func NewListHandler(provider view.PageProvider, blobs BlobChecker, cfg pagination.Config, logger *slog.Logger) *ListHandler {
	return &ListHandler{
		Provider:      provider,
		Blobs:         blobs,
		PaginationCfg: cfg,
		Logger:        logger,
		controllers:   make(map[string]*view.Controller),
	}
}

func (h *ListHandler) controller(feed string, pageSize int) *view.Controller {
	key := fmt.Sprintf("%s:s%d", feed, pageSize)

	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.controllers[key]; ok {
		return c
	}
	c := view.NewController(feed, pageSize, h.Provider, h.Logger)
	h.controllers[key] = c
	return c
}

// ServeHTTP handles GET /feeds/{feed}.
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	feedName := r.PathValue("feed")
	if feedName == "" {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("feed name is required"))
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters",
			"feed", feedName,
			"error", err.Error(),
			"request_id", reqID)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result := h.controller(feedName, params.PageSize).Show(ctx, params.Page)
	if result.Err != nil && !result.Stale {
		logger.Error("feed page unavailable",
			"feed", feedName,
			"page", params.Page,
			"error", result.Err.Error(),
			"request_id", reqID)
		pagination.RecordRequest(http.StatusBadGateway, params.Page)
		respond.SafeError(w, http.StatusBadGateway, result.Err)
		return
	}

	env := result.Envelope
	dtos := make([]PhotoDTO, 0, len(env.Photos))
	for _, p := range env.Photos {
		_, hasBlob := h.Blobs.ImageHandle(p.ID)
		dtos = append(dtos, toDTO(p, hasBlob))
	}

	response := pagination.NewResponse(dtos, pagination.Metadata{
		Total:         env.TotalCount,
		Page:          env.Page,
		RequestedPage: env.RequestedPage,
		PageSize:      env.PageSize,
		TotalPages:    env.TotalPages,
		HasNext:       env.HasNext,
		HasPrev:       env.HasPrev,
	})

	if result.PageCorrected {
		w.Header().Set(PageCorrectedHeader, strconv.Itoa(result.Page))
	}
	if result.Stale {
		w.Header().Set(StaleHeader, "true")
		logger.Warn("serving stale feed page after fetch failure",
			"feed", feedName,
			"page", result.Page,
			"error", result.Err.Error(),
			"request_id", reqID)
	}

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, result.Page)
	pagination.RecordDuration("handler", duration.Seconds())

	logger.Info("feed page served",
		"feed", feedName,
		"page", result.Page,
		"requested_page", params.Page,
		"returned_count", len(dtos),
		"stale", result.Stale,
		"duration_ms", duration.Milliseconds(),
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, response)
}
