package pagination

// Metadata contains pagination metadata included in API responses.
// RequestedPage is echoed back so clients can detect server-side clamping
// and update addressable URL state to match Page.
type Metadata struct {
	Total         int64 `json:"total"`          // Total number of items across all pages
	Page          int   `json:"page"`           // Clamped page number (1-based)
	RequestedPage int   `json:"requested_page"` // Page the client originally asked for
	PageSize      int   `json:"page_size"`      // Items per page
	TotalPages    int   `json:"total_pages"`    // Calculated total number of pages
	HasNext       bool  `json:"has_next"`       // True when a later page exists
	HasPrev       bool  `json:"has_prev"`       // True when an earlier page exists
}
