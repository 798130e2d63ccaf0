// Package source implements the HTTP client for the managed photo backend.
// It is the only component that talks to the network: the cache layer sees it
// through the PhotoSource and PayloadFetcher interfaces.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/evelyn-website/family-photo-sub000/internal/cache"
	"github.com/evelyn-website/family-photo-sub000/internal/common/pagination"
	"github.com/evelyn-website/family-photo-sub000/internal/domain/entity"
	"github.com/evelyn-website/family-photo-sub000/internal/resilience/circuitbreaker"
	"github.com/evelyn-website/family-photo-sub000/internal/resilience/retry"
)

// photoRecord is the backend's wire representation of one photo.
type photoRecord struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	DisplayURL  string    `json:"displayUrl"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
}

// pageResponse is the backend's paginated query response.
type pageResponse struct {
	Photos      []photoRecord `json:"photos"`
	Page        int           `json:"page"`
	PageSize    int           `json:"pageSize"`
	TotalCount  int64         `json:"totalCount"`
	TotalPages  int           `json:"totalPages"`
	HasNextPage bool          `json:"hasNextPage"`
	HasPrevPage bool          `json:"hasPrevPage"`
}

// Client is the HTTP photo backend client. It satisfies cache.PhotoSource
// and cache.PayloadFetcher.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger

	queryRetry   retry.Config
	queryBreaker *circuitbreaker.CircuitBreaker

	payloadRetry   retry.Config
	payloadBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a backend client with per-path resilience: paginated
// queries and payload downloads get separate retry policies and breakers so a
// flaky image host cannot trip the metadata path.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:            cfg,
		http:           &http.Client{Timeout: cfg.RequestTimeout},
		logger:         logger,
		queryRetry:     retry.PageQueryConfig(),
		queryBreaker:   circuitbreaker.New(circuitbreaker.PageQueryConfig()),
		payloadRetry:   retry.PayloadFetchConfig(),
		payloadBreaker: circuitbreaker.New(circuitbreaker.PayloadFetchConfig()),
	}
}

// FetchPage queries one feed page and returns its envelope. The response is
// checked against the local pagination arithmetic; an envelope that disagrees
// on clamping or page counts is rejected rather than cached.
func (c *Client) FetchPage(ctx context.Context, feed string, page, pageSize int) (cache.Envelope, error) {
	u := fmt.Sprintf("%s/feeds/%s?page=%d&page_size=%d",
		c.cfg.BaseURL, url.PathEscape(feed), page, pageSize)

	var resp pageResponse
	result, err := c.queryBreaker.Execute(func() (interface{}, error) {
		var inner pageResponse
		err := retry.WithBackoff(ctx, c.queryRetry, func() error {
			return c.getJSON(ctx, u, &inner)
		})
		return inner, err
	})
	if err != nil {
		return cache.Envelope{}, fmt.Errorf("query feed %q page %d: %w", feed, page, err)
	}
	resp = result.(pageResponse)

	if err := validatePage(resp, page, pageSize); err != nil {
		return cache.Envelope{}, fmt.Errorf("feed %q page %d: %w", feed, page, err)
	}

	photos := make([]entity.Photo, 0, len(resp.Photos))
	for _, r := range resp.Photos {
		p := entity.Photo{
			ID:          r.ID,
			CreatedAt:   r.CreatedAt,
			OwnerID:     r.OwnerID,
			Title:       r.Title,
			Description: r.Description,
			Tags:        r.Tags,
			DisplayURL:  r.DisplayURL,
			AuthorName:  r.AuthorName,
			AuthorEmail: r.AuthorEmail,
		}
		p.Normalize()
		photos = append(photos, p)
	}

	return cache.Envelope{
		Photos:        photos,
		RequestedPage: page,
		Page:          resp.Page,
		PageSize:      resp.PageSize,
		TotalCount:    resp.TotalCount,
		TotalPages:    resp.TotalPages,
		HasNext:       resp.HasNextPage,
		HasPrev:       resp.HasPrevPage,
	}, nil
}

// validatePage rejects responses that violate the pagination arithmetic the
// cache relies on. Caching an inconsistent envelope would pin the
// inconsistency until the next invalidation.
func validatePage(resp pageResponse, requestedPage, pageSize int) error {
	if resp.PageSize != pageSize {
		return fmt.Errorf("backend changed page size: sent %d, got %d", pageSize, resp.PageSize)
	}
	if resp.TotalCount < 0 {
		return fmt.Errorf("negative total count %d", resp.TotalCount)
	}

	want := pagination.Resolve(requestedPage, pageSize, resp.TotalCount)
	if resp.TotalPages != want.TotalPages {
		return fmt.Errorf("total pages mismatch: backend %d, computed %d", resp.TotalPages, want.TotalPages)
	}
	if resp.Page != want.Page {
		return fmt.Errorf("clamping mismatch: backend served page %d, computed %d", resp.Page, want.Page)
	}
	if resp.HasNextPage != want.HasNext || resp.HasPrevPage != want.HasPrev {
		return fmt.Errorf("neighbor flags mismatch for page %d of %d", resp.Page, resp.TotalPages)
	}
	if len(resp.Photos) > pageSize {
		return fmt.Errorf("page overflow: %d photos for page size %d", len(resp.Photos), pageSize)
	}
	return nil
}

// FetchPayload downloads the binary payload behind a photo URL. Used by the
// payload cache; failures here are swallowed by the caller, so this only does
// the transport work.
func (c *Client) FetchPayload(ctx context.Context, rawURL string) ([]byte, string, error) {
	type payload struct {
		data        []byte
		contentType string
	}

	result, err := c.payloadBreaker.Execute(func() (interface{}, error) {
		var p payload
		err := retry.WithBackoff(ctx, c.payloadRetry, func() error {
			data, contentType, err := c.getBinary(ctx, rawURL)
			if err != nil {
				return err
			}
			p = payload{data: data, contentType: contentType}
			return nil
		})
		return p, err
	})
	if err != nil {
		return nil, "", fmt.Errorf("fetch payload %s: %w", rawURL, err)
	}
	p := result.(payload)
	return p.data, p.contentType, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &retry.HTTPError{StatusCode: resp.StatusCode, Message: "feed query failed"}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) getBinary(ctx context.Context, u string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: "payload fetch failed"}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxPayloadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > c.cfg.MaxPayloadBytes {
		return nil, "", fmt.Errorf("payload exceeds %d byte limit", c.cfg.MaxPayloadBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
