// Package pagination slices ordered collections into fixed-size,
// 1-indexed pages.
package pagination

// DefaultPageSize is the page size used by every listing in the application.
const DefaultPageSize = 10

// Page describes one page of an ordered collection.
type Page struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Offset returns the item offset of the first element on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// New computes page metadata for a collection of total items. The requested
// page number is clamped: values below 1 become 1, values past the end become
// the last page. An empty collection still has one (empty) page so callers
// never deal with a zero page count.
func New(total int64, size, requested int) Page {
	if size < 1 {
		size = DefaultPageSize
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}

// SlicePage returns the elements of items belonging to the requested page,
// along with the page metadata. items must already be ordered.
func SlicePage[T any](items []T, size, requested int) ([]T, Page) {
	page := New(int64(len(items)), size, requested)

	start := page.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], page
}
