package handlers

import (
	"errors"
	"net/url"
	"strings"

	"commerce/internal/domain"
	"commerce/internal/listing"
	applog "commerce/internal/log"
	"commerce/internal/services"
	"commerce/internal/suggest"
	"commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const (
	productsPerPage = 12
	pageWindow      = 5
)

// PageHandler renders the storefront.
type PageHandler struct {
	Catalog     *services.CatalogService
	Reviews     *services.ReviewService
	Stats       *services.StatisticsService
	Fetcher     listing.Fetcher[domain.Product]
	Suggestions *suggest.Source
}

type tab struct {
	Value, Label string
}

var productTabs = []tab{
	{listing.TabKeyword, "키워드 검색"},
	{listing.TabContent, "콘텐츠 기반"},
	{listing.TabReview, "리뷰 기반"},
}

func validTab(t string) bool {
	for _, x := range productTabs {
		if x.Value == t {
			return true
		}
	}
	return false
}

// GET /
func (h *PageHandler) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	top, err := h.Catalog.Search(ctx, domain.ProductSearch{SortBy: "rating", SortOrder: "desc"}, 1, 8)
	if err != nil {
		return err
	}
	cats, err := h.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	return render(c, "home", fiber.Map{
		"Products":    top.Items,
		"Categories":  cats.Items,
		"Suggestions": h.Suggestions.Keywords(),
	})
}

// listState reads the product list state from the query string.
func listState(c *fiber.Ctx) (listing.State, string, bool) {
	st := listing.State{
		Filter: listing.Filter{
			Category: strings.TrimSpace(c.Query("category")),
			SortKey:  c.Query("sort"),
			SortDir:  listing.ParseSortDir(c.Query("dir")),
			Tab:      c.Query("tab", listing.TabKeyword),
		},
		PageSize: productsPerPage,
	}
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return st, "q", false
		}
		st.Query = q
	}
	if !validTab(st.Tab) {
		return st, "tab", false
	}
	if !sortKeys[st.SortKey] {
		return st, "sort", false
	}
	page, ok := validate.Page(c.Query("page"))
	if !ok {
		return st, "page", false
	}
	st.Page = page
	return st, "", true
}

// pagerBase is the products URL for st with an open page= at the end.
func pagerBase(st listing.State) string {
	v := url.Values{}
	v.Set("tab", st.Tab)
	if st.Query != "" {
		v.Set("q", st.Query)
	}
	if st.Category != "" {
		v.Set("category", st.Category)
	}
	if st.SortKey != "" {
		v.Set("sort", st.SortKey)
		v.Set("dir", string(st.SortDir))
	}
	return "/products?" + v.Encode() + "&page="
}

// GET /products
func (h *PageHandler) Products(c *fiber.Ctx) error {
	st, field, ok := listState(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		c.Status(fiber.StatusBadRequest)
		return render(c, "products", fiber.Map{"State": st, "Tabs": productTabs, "Err": "Invalid " + field})
	}

	ctx := c.UserContext()
	page, err := h.Fetcher.Fetch(ctx, st)
	if err == nil && page.TotalPages > 0 && st.Page > page.TotalPages {
		st.Page = listing.ClampPage(st.Page, page.TotalPages)
		page, err = h.Fetcher.Fetch(ctx, st)
	}
	if err != nil {
		applog.Error(c, "products.page.fail", err, map[string]any{"tab": st.Tab})
		page = listing.EmptyPage[domain.Product](productsPerPage)
	}
	cats, err := h.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	return render(c, "products", fiber.Map{
		"State":      st,
		"Tabs":       productTabs,
		"Page":       page,
		"Pager":      listing.PageItems(page.TotalPages, page.Page, pageWindow),
		"PagerBase":  pagerBase(st),
		"HasPrev":    page.Page > 1,
		"HasNext":    page.Page < page.TotalPages,
		"PrevPage":   page.Page - 1,
		"NextPage":   page.Page + 1,
		"Categories": cats.Items,
	})
}

// GET /products/:id
func (h *PageHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This item is no longer available")
	}
	ctx := c.UserContext()
	p, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			applog.Error(c, "product.page.fail", err, map[string]any{"product_id": id})
		}
		return notFound(c, "This item is no longer available")
	}

	rpage, ok := validate.Page(c.Query("rpage"))
	if !ok {
		rpage = 1
	}
	reviews, err := h.Reviews.ProductReviews(ctx, p.ProductNo, rpage, 5)
	if err != nil {
		return err
	}
	similar, err := h.Catalog.Similar(ctx, p.ID, 4)
	if err != nil {
		return err
	}
	stats, err := h.Stats.ForProducts(ctx, []string{p.ProductNo})
	if err != nil {
		return err
	}
	return render(c, "product", fiber.Map{
		"P":         p,
		"Reviews":   reviews,
		"Pager":     listing.PageItems(reviews.TotalPages, reviews.Page, pageWindow),
		"PagerBase": "/products/" + p.ID + "?rpage=",
		"Similar":   similar,
		"Stats":     stats[0],
	})
}
