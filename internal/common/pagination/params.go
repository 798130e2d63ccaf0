package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page     int // 1-based page number
	PageSize int // Items per page
}

// ParseQueryParams parses pagination parameters from HTTP request query string.
// Returns Params with defaults if parameters are missing.
//
// Query parameters:
//   - page: Page number (must be a positive integer)
//   - page_size: Items per page (must be between 1 and config.MaxPageSize)
//
// Returns an error if parameters are present but invalid. Out-of-range page
// numbers above the last page are NOT an error here; clamping against the
// total count happens later, once the count is known.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:     config.DefaultPage,
		PageSize: config.DefaultPageSize,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Page = page
	}

	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 || size > config.MaxPageSize {
			return params, fmt.Errorf("invalid query parameter: page_size must be between 1 and %d", config.MaxPageSize)
		}
		params.PageSize = size
	}

	return params, nil
}

// Validate validates pagination parameters against the configuration.
// Returns an error if:
//   - page is less than 1
//   - page size is less than 1 or greater than config.MaxPageSize
func (p Params) Validate(config Config) error {
	if p.Page < 1 {
		return fmt.Errorf("page must be a positive integer")
	}
	if p.PageSize < 1 || p.PageSize > config.MaxPageSize {
		return fmt.Errorf("page_size must be between 1 and %d", config.MaxPageSize)
	}
	return nil
}

// WithDefaults applies default values from config to Params.
//
// Rules:
//   - If page <= 0, set to config.DefaultPage
//   - If page size <= 0, set to config.DefaultPageSize
//   - If page size > config.MaxPageSize, cap to config.MaxPageSize
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = config.DefaultPageSize
	}
	if p.PageSize > config.MaxPageSize {
		p.PageSize = config.MaxPageSize
	}
	return p
}
