package listing

import (
	"context"
	"strings"
)

type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// ParseSortDir accepts asc/desc in any case; anything else is Desc.
func ParseSortDir(s string) SortDir {
	if strings.EqualFold(strings.TrimSpace(s), string(Asc)) {
		return Asc
	}
	return Desc
}

// Filter is everything besides the page cursor that decides which results show.
type Filter struct {
	Query    string  `json:"query,omitempty"`
	Category string  `json:"category,omitempty"`
	SortKey  string  `json:"sort_key,omitempty"`
	SortDir  SortDir `json:"sort_dir,omitempty"`
	Tab      string  `json:"tab,omitempty"`
}

type State struct {
	Filter
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset is the zero-based index of the first item on the current page.
func (s State) Offset() int {
	if s.Page < 1 || s.PageSize < 1 {
		return 0
	}
	return (s.Page - 1) * s.PageSize
}

// Page is one page of results in the {items,total,page,size,total_pages} envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
}

// EmptyPage is what a list shows when nothing matched or the fetch failed.
func EmptyPage[T any](size int) Page[T] {
	return Page[T]{Items: []T{}, Page: 1, Size: size}
}

// Fetcher produces the page described by a State. Implementations either
// slice an in-memory list or call a remote API and trust its envelope.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, st State) (Page[T], error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc[T any] func(ctx context.Context, st State) (Page[T], error)

func (f FetcherFunc[T]) Fetch(ctx context.Context, st State) (Page[T], error) {
	return f(ctx, st)
}
