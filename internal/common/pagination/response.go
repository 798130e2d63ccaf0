package pagination

// Response is a generic paginated response wrapper.
// T is the type of data items (e.g., PhotoDTO).
//
// Example usage:
//
//	response := pagination.NewResponse(photos, metadata)
//	// response is of type pagination.Response[PhotoDTO]
type Response[T any] struct {
	Data       []T      `json:"data"`       // Array of data items for the current page
	Pagination Metadata `json:"pagination"` // Pagination metadata (total, page, flags, etc.)
}

// NewResponse creates a new paginated response with data and metadata.
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	return Response[T]{
		Data:       data,
		Pagination: metadata,
	}
}
