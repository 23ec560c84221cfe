package listing

import (
	"context"
	"strings"
	"sync"

	applog "commerce/internal/log"
)

// Controller owns one list view: its State, the page on screen, and the
// generation of the newest fetch. Every mutation that changes what should be
// visible starts a new fetch and cancels the one still in flight; a result
// that arrives for an older generation is dropped, so the page on screen
// always belongs to the latest State.
type Controller[T any] struct {
	fetcher Fetcher[T]
	name    string

	mu      sync.Mutex
	state   State
	page    Page[T]
	gen     uint64
	cancel  context.CancelFunc
	lastErr error
}

// NewController starts on page 1 with the given page size. name tags log lines.
func NewController[T any](name string, f Fetcher[T], pageSize int) *Controller[T] {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Controller[T]{
		fetcher: f,
		name:    name,
		state:   State{Filter: Filter{SortDir: Desc}, Page: 1, PageSize: pageSize},
		page:    EmptyPage[T](pageSize),
	}
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T]) Current() Page[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Err is the error of the newest completed fetch, nil when it succeeded.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Window is the page-number window for the page on screen.
func (c *Controller[T]) Window() []int {
	p := c.Current()
	return PageWindow(p.TotalPages, p.Page, DefaultWindow)
}

func (c *Controller[T]) SetQuery(ctx context.Context, q string) (Page[T], bool) {
	q = strings.TrimSpace(q)
	return c.load(ctx, func(s *State) {
		s.Query = q
		s.Page = 1
	})
}

func (c *Controller[T]) SetCategory(ctx context.Context, category string) (Page[T], bool) {
	return c.load(ctx, func(s *State) {
		s.Category = category
		s.Page = 1
	})
}

func (c *Controller[T]) SetSort(ctx context.Context, key string, dir SortDir) (Page[T], bool) {
	return c.load(ctx, func(s *State) {
		s.SortKey = key
		s.SortDir = dir
		s.Page = 1
	})
}

// SetFilter replaces the whole filter at once and returns to page 1.
func (c *Controller[T]) SetFilter(ctx context.Context, f Filter) (Page[T], bool) {
	f.Query = strings.TrimSpace(f.Query)
	return c.load(ctx, func(s *State) {
		s.Filter = f
		s.Page = 1
	})
}

// SetTab switches the result source; the category filter does not carry over.
func (c *Controller[T]) SetTab(ctx context.Context, tab string) (Page[T], bool) {
	return c.load(ctx, func(s *State) {
		s.Tab = tab
		s.Category = ""
		s.Page = 1
	})
}

func (c *Controller[T]) SetPageSize(ctx context.Context, size int) (Page[T], bool) {
	if size <= 0 {
		return c.Current(), false
	}
	return c.load(ctx, func(s *State) {
		s.PageSize = size
		s.Page = 1
	})
}

// SetPage moves the cursor. Once the total is known the page is clamped to it.
func (c *Controller[T]) SetPage(ctx context.Context, page int) (Page[T], bool) {
	c.mu.Lock()
	total := c.page.TotalPages
	c.mu.Unlock()
	if total > 0 {
		page = ClampPage(page, total)
	} else if page < 1 {
		page = 1
	}
	return c.load(ctx, func(s *State) { s.Page = page })
}

func (c *Controller[T]) Next(ctx context.Context) (Page[T], bool) {
	return c.SetPage(ctx, c.State().Page+1)
}

func (c *Controller[T]) Prev(ctx context.Context) (Page[T], bool) {
	return c.SetPage(ctx, c.State().Page-1)
}

// Refresh re-fetches the current State.
func (c *Controller[T]) Refresh(ctx context.Context) (Page[T], bool) {
	return c.load(ctx, func(*State) {})
}

// load applies mutate, fetches, and installs the result unless a newer load
// started meanwhile. The bool reports whether this call's result is on screen.
func (c *Controller[T]) load(ctx context.Context, mutate func(*State)) (Page[T], bool) {
	c.mu.Lock()
	mutate(&c.state)
	st := c.state
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	p, err := c.fetcher.Fetch(fctx, st)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return c.page, false
	}
	cancel()
	c.cancel = nil
	c.lastErr = err

	if err != nil {
		applog.Error(nil, "listing.fetch.fail", err, map[string]any{
			"list": c.name, "query": st.Query, "category": st.Category, "page": st.Page,
		})
		c.page = EmptyPage[T](st.PageSize)
		c.state.Page = 1
		return c.page, true
	}

	if p.Items == nil {
		p.Items = []T{}
	}
	if p.Size <= 0 {
		p.Size = st.PageSize
	}
	if p.TotalPages <= 0 {
		p.TotalPages = TotalPages(p.Total, p.Size)
	}
	if p.Page <= 0 {
		p.Page = ClampPage(st.Page, p.TotalPages)
	}
	c.state.Page = p.Page
	c.page = p
	return p, true
}
