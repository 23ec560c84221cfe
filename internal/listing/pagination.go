// Package listing holds the product-list state machine shared by the
// storefront pages, the admin views and the API client: filter/sort/search
// state, a page cursor, and the page-number window rendered under a list.
package listing

// DefaultWindow is the number of page buttons rendered under a list.
const DefaultWindow = 5

// TotalPages returns ceil(total/size), or 0 when there is nothing to page.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage keeps page inside [1, totalPages]. An empty result still has page 1.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Slice returns items[(page-1)*size : page*size], clipped to the slice bounds.
func Slice[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageWindow lists the page numbers to render. With totalPages <= window every
// page is shown; otherwise the window is centered on current and clamped at
// either end.
func PageWindow(totalPages, current, window int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	if window <= 0 {
		window = DefaultWindow
	}
	current = ClampPage(current, totalPages)

	start, end := 1, totalPages
	if totalPages > window {
		start = current - window/2
		if start < 1 {
			start = 1
		}
		if start > totalPages-window+1 {
			start = totalPages - window + 1
		}
		end = start + window - 1
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// PageItem is one button of the first/last/ellipsis pager.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// PageItems is the PageWindow variant that always links the first and last
// page, with an ellipsis standing in for any skipped run.
func PageItems(totalPages, current, window int) []PageItem {
	pages := PageWindow(totalPages, current, window)
	if len(pages) == 0 {
		return []PageItem{}
	}
	current = ClampPage(current, totalPages)

	items := make([]PageItem, 0, len(pages)+4)
	first, last := pages[0], pages[len(pages)-1]
	if first > 1 {
		items = append(items, PageItem{Number: 1})
		if first > 2 {
			items = append(items, PageItem{Ellipsis: true})
		}
	}
	for _, p := range pages {
		items = append(items, PageItem{Number: p, Current: p == current})
	}
	if last < totalPages {
		if last < totalPages-1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Number: totalPages})
	}
	return items
}
