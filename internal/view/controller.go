// Package view implements the per-feed reconciliation state machine sitting
// between the HTTP surface and the photo cache. Each controller tracks one
// feed at a fixed page size and reconciles the page its consumer asked for
// with the page the backend actually served.
package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
)

// State is the controller's reconciliation phase.
type State int

const (
	// StateIdle: no resolved page yet, no fetch in progress.
	StateIdle State = iota
	// StateAwaitingFetch: a fetch for the current fingerprint is being resolved.
	StateAwaitingFetch
	// StateSettled: the current page has a resolved envelope.
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFetch:
		return "awaiting_fetch"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// PageProvider is the slice of the cache coordinator the controller needs.
type PageProvider interface {
	EnsurePage(ctx context.Context, feed string, page, pageSize int) (cache.Envelope, error)
	Plan(feed string, page, pageSize int) cache.FetchRequest
}

// Result is the outcome of one Show call.
//
// When Err is set and Stale is true, Envelope holds the last settled page:
// a fetch failed but earlier content is still available and should be shown
// in preference to an empty error state.
type Result struct {
	Envelope cache.Envelope

	// Page is the page the controller settled on. When the backend clamped
	// an out-of-range request this differs from the page passed to Show, and
	// any addressable state (URL query, bookmark) must adopt it.
	Page          int
	PageCorrected bool

	Stale bool
	Err   error
}

// Controller reconciles one feed's pagination state. It persists for the
// lifetime of its consumer; there is no teardown beyond dropping the
// reference, since the caches it reads from are owned elsewhere.
type Controller struct {
	feed     string
	pageSize int
	provider PageProvider
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	page  int
	last  *cache.Envelope
}

// NewController creates a controller for one feed at a fixed page size,
// starting in the idle state on page 1.
func NewController(feed string, pageSize int, provider PageProvider, logger *slog.Logger) *Controller {
	return &Controller{
		feed:     feed,
		pageSize: pageSize,
		provider: provider,
		logger:   logger,
		state:    StateIdle,
		page:     1,
	}
}

// State returns the controller's current phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Page returns the page the controller is currently on.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Show navigates to a page and returns its resolved envelope.
//
// Navigating away from a settled page passes through idle before the fetch
// decision, so a later return to the old page re-checks validity instead of
// reusing controller-local state. When the fetch fails the controller keeps
// its last settled envelope and returns it marked stale alongside the error;
// the consumer decides whether to render the stale content or the error.
func (c *Controller) Show(ctx context.Context, page int) Result {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSettled && page != c.page {
		c.state = StateIdle
	}
	c.page = page

	if !c.provider.Plan(c.feed, page, c.pageSize).ShouldFetch() {
		// Valid fingerprint: EnsurePage serves the stored envelope with no
		// network traffic, so the await phase collapses.
		env, err := c.provider.EnsurePage(ctx, c.feed, page, c.pageSize)
		if err == nil {
			return c.settle(env)
		}
		return c.fail(page, err)
	}

	c.state = StateAwaitingFetch
	env, err := c.provider.EnsurePage(ctx, c.feed, page, c.pageSize)
	if err != nil {
		return c.fail(page, err)
	}
	return c.settle(env)
}

// settle adopts a resolved envelope, including the backend's clamped page.
// Caller holds c.mu.
func (c *Controller) settle(env cache.Envelope) Result {
	corrected := env.PageCorrected()
	if corrected {
		c.logger.Info("adopting server-corrected page",
			slog.String("feed", c.feed),
			slog.Int("requested_page", env.RequestedPage),
			slog.Int("page", env.Page))
	}
	c.state = StateSettled
	c.page = env.Page
	c.last = &env

	return Result{
		Envelope:      env,
		Page:          env.Page,
		PageCorrected: corrected,
	}
}

// fail reports a fetch error, retaining the last settled envelope as stale
// content when one exists. Caller holds c.mu.
func (c *Controller) fail(page int, err error) Result {
	c.logger.Warn("feed page fetch failed",
		slog.String("feed", c.feed),
		slog.Int("page", page),
		slog.Any("error", err))

	if c.last != nil {
		c.state = StateSettled
		c.page = c.last.Page
		return Result{
			Envelope: *c.last,
			Page:     c.last.Page,
			Stale:    true,
			Err:      err,
		}
	}
	c.state = StateIdle
	return Result{Page: page, Err: err}
}
