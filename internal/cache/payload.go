package cache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// PayloadFetcher retrieves the binary payload behind a photo's display URL.
// Implementations live at the network edge (internal/infra/source).
type PayloadFetcher interface {
	FetchPayload(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// Handle is a revocable local reference to a materialized binary payload.
// Handles are exclusively owned by the PayloadCache: consumers read through
// the accessors and never remove the backing file themselves. The file is
// revoked when the cache is disposed.
type Handle struct {
	id          string
	path        string
	contentType string
}

// LocalPath returns the filesystem path of the materialized payload.
// The path is valid until the owning cache is disposed.
func (h *Handle) LocalPath() string { return h.path }

// ContentType returns the MIME type reported when the payload was fetched.
func (h *Handle) ContentType() string { return h.contentType }

// PayloadConfig holds tuning knobs for the payload cache.
type PayloadConfig struct {
	// DownloadsPerSecond limits the aggregate download rate across all
	// materializations, protecting the image host from burst traffic when a
	// large page lands.
	DownloadsPerSecond float64

	// DownloadBurst is the rate limiter burst size.
	DownloadBurst int

	// FetchTimeout bounds one payload download end to end.
	FetchTimeout time.Duration
}

// DefaultPayloadConfig returns the default payload cache configuration.
func DefaultPayloadConfig() PayloadConfig {
	return PayloadConfig{
		DownloadsPerSecond: 8,
		DownloadBurst:      4,
		FetchTimeout:       30 * time.Second,
	}
}

// PayloadCache materializes remote image payloads into local files and hands
// out revocable handles to them. Population is strictly best-effort: a
// failed download is swallowed (counted and logged at debug) and consumers
// fall back to the remote URL, so image display is never blocked on the
// cache.
//
// At most one download per identity is in flight at any time; Materialize
// calls for an identity that already has a handle or a pending download are
// no-ops.
type PayloadCache struct {
	cfg     PayloadConfig
	fetcher PayloadFetcher
	logger  *slog.Logger
	limiter *rate.Limiter
	group   singleflight.Group

	mu      sync.Mutex
	handles map[string]*Handle
	pending map[string]struct{}
	closed  bool

	wg  sync.WaitGroup
	dir string
}

// NewPayloadCache creates a payload cache backed by a fresh temporary
// directory. The caller owns the lifecycle and must call Dispose to revoke
// all handles and remove the directory.
func NewPayloadCache(cfg PayloadConfig, fetcher PayloadFetcher, logger *slog.Logger) (*PayloadCache, error) {
	dir, err := os.MkdirTemp("", "photo-payloads-")
	if err != nil {
		return nil, err
	}
	return &PayloadCache{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.DownloadsPerSecond), cfg.DownloadBurst),
		handles: make(map[string]*Handle),
		pending: make(map[string]struct{}),
		dir:     dir,
	}, nil
}

// HandleFor returns the handle for an identity, if one has been materialized.
func (c *PayloadCache) HandleFor(id string) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[id]
	return h, ok
}

// HandleCount returns the number of live handles.
func (c *PayloadCache) HandleCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}

// Materialize schedules a download of the payload behind remoteURL for the
// given identity. Fire-and-forget: it returns immediately and never reports
// an error. The call is a no-op when a handle already exists, a download for
// the identity is already pending, or the cache has been disposed.
func (c *PayloadCache) Materialize(id, remoteURL string) {
	if id == "" || remoteURL == "" {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if _, ok := c.handles[id]; ok {
		c.mu.Unlock()
		RecordMaterialization("skipped")
		return
	}
	if _, ok := c.pending[id]; ok {
		c.mu.Unlock()
		RecordMaterialization("skipped")
		return
	}
	c.pending[id] = struct{}{}
	c.wg.Add(1)
	c.mu.Unlock()

	go c.download(id, remoteURL)
}

func (c *PayloadCache) download(id, remoteURL string) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FetchTimeout)
	defer cancel()

	// singleflight collapses the race window between one download clearing
	// its pending marker and a concurrent Materialize for the same identity.
	_, err, _ := c.group.Do(id, func() (interface{}, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		data, contentType, err := c.fetcher.FetchPayload(ctx, remoteURL)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(c.dir, uuid.NewString())
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return nil, err
		}

		h := &Handle{id: id, path: path, contentType: contentType}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			_ = os.Remove(path)
			return nil, context.Canceled
		}
		// An existing handle is never silently replaced.
		if _, exists := c.handles[id]; exists {
			_ = os.Remove(path)
			return h, nil
		}
		c.handles[id] = h
		UpdateHandleCount(len(c.handles))
		return h, nil
	})

	if err != nil {
		RecordMaterialization("failure")
		c.logger.Debug("payload materialization failed",
			slog.String("photo_id", id),
			slog.String("url", remoteURL),
			slog.Any("error", err))
		return
	}
	RecordMaterialization("success")
}

// Dispose revokes every handle and removes the backing directory. It blocks
// until in-flight downloads settle. The cache must not be used afterwards;
// Materialize becomes a no-op and HandleFor returns nothing.
func (c *PayloadCache) Dispose() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	for id, h := range c.handles {
		if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
			c.logger.Warn("failed to revoke payload handle",
				slog.String("photo_id", id),
				slog.Any("error", err))
		}
	}
	c.handles = make(map[string]*Handle)
	UpdateHandleCount(0)
	c.mu.Unlock()

	return os.RemoveAll(c.dir)
}
