package listing

import (
	"context"
	"slices"
)

// MemoryFetcher pages through in-memory lists: pick the tab's source,
// filter, sort, then Slice. It never fails.
type MemoryFetcher[T any] struct {
	// Sources maps a tab to its items. The "" entry is used for unknown tabs.
	Sources map[string][]T
	// Match reports whether an item passes the query/category filter.
	// nil keeps everything.
	Match func(item T, f Filter) bool
	// Sorters compare two items ascending for a sort key. Unknown keys keep
	// the source order.
	Sorters map[string]func(a, b T) int
}

func (m MemoryFetcher[T]) Fetch(_ context.Context, st State) (Page[T], error) {
	src, ok := m.Sources[st.Tab]
	if !ok {
		src = m.Sources[""]
	}

	matched := make([]T, 0, len(src))
	for _, it := range src {
		if m.Match == nil || m.Match(it, st.Filter) {
			matched = append(matched, it)
		}
	}

	if cmp, ok := m.Sorters[st.SortKey]; ok {
		if st.SortDir == Desc {
			slices.SortStableFunc(matched, func(a, b T) int { return cmp(b, a) })
		} else {
			slices.SortStableFunc(matched, cmp)
		}
	}

	size := st.PageSize
	if size <= 0 {
		size = 20
	}
	total := len(matched)
	pages := TotalPages(total, size)
	page := ClampPage(st.Page, pages)
	return Page[T]{
		Items:      Slice(matched, page, size),
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: pages,
	}, nil
}
