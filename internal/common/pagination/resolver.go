package pagination

// Resolution is the full set of derived pagination values for one request.
// It is computed identically by the data source when answering a query and
// by the cache layer when predicting the shape of a pending query, so the
// two always converge once a round trip completes.
type Resolution struct {
	Page       int  // Clamped page number, always within [1, TotalPages]
	Offset     int  // Row offset of the first item on the page
	TotalPages int  // Always >= 1, even for an empty collection
	HasNext    bool // True when Page < TotalPages
	HasPrev    bool // True when Page > 1
}

// Resolve computes the clamped page, offset, and navigation flags for a
// requested page. Out-of-range page requests are silently corrected to the
// nearest valid page rather than rejected; callers that need to know a
// correction happened compare Page against their requested value.
//
// pageSize must be positive and totalCount non-negative.
//
// Examples:
//   - Resolve(5, 24, 50)  -> Page 3, Offset 48, TotalPages 3
//   - Resolve(1, 24, 0)   -> Page 1, Offset 0, TotalPages 1
func Resolve(requestedPage, pageSize int, totalCount int64) Resolution {
	totalPages := CalculateTotalPages(totalCount, pageSize)
	page := ClampPage(requestedPage, totalPages)
	return Resolution{
		Page:       page,
		Offset:     CalculateOffset(page, pageSize),
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ClampPage corrects an out-of-range page number to the nearest valid page.
// Pages below 1 become 1; pages above totalPages become totalPages.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// CalculateOffset calculates the row offset based on page number and page size.
// Page numbers are 1-based, so page 1 has offset 0.
//
// Formula: offset = (page - 1) * pageSize
//
// Examples:
//   - Page 1, PageSize 24 -> Offset 0
//   - Page 2, PageSize 24 -> Offset 24
//   - Page 3, PageSize 10 -> Offset 20
func CalculateOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// CalculateTotalPages calculates the total number of pages based on total items and page size.
// Uses ceiling division to ensure all items are included.
//
// Special cases:
//   - If total is 0, returns 1 (always at least 1, possibly empty, page)
//   - If total < pageSize, returns 1
//   - Otherwise, returns ceil(total / pageSize)
//
// Examples:
//   - Total 0, PageSize 24 -> 1 page
//   - Total 24, PageSize 24 -> 1 page
//   - Total 25, PageSize 24 -> 2 pages
//   - Total 100, PageSize 24 -> 5 pages
func CalculateTotalPages(total int64, pageSize int) int {
	if total == 0 {
		return 1 // Always at least 1 page
	}
	// Ceiling division: (total + pageSize - 1) / pageSize
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
