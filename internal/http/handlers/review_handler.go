package handlers

import (
	"strconv"

	"commerce/internal/config"
	"commerce/internal/services"
	"commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
	Cfg     config.Config
}

// GET /api/v1/reviews/products/:id/reviews
func (h *ReviewHandler) ProductReviews(c *fiber.Ctx) error {
	no, ok := validate.ProductNo(c.Params("id"))
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}
	page, ok := validate.Page(c.Query("page"))
	if !ok {
		return badParam(c, "page")
	}
	size, ok := validate.Size(c.Query("size"), h.Cfg.DefaultPageSize, h.Cfg.MaxPageSize)
	if !ok {
		return badParam(c, "size")
	}
	out, err := h.Reviews.ProductReviews(c.UserContext(), no, page, size)
	if err != nil {
		return serviceError(c, "reviews.list.fail", err)
	}
	return c.JSON(out)
}

// reviewSearch is the body of both review search endpoints. Paging and
// weights may also come from the query string; the body wins.
type reviewSearch struct {
	Query        string   `json:"query"`
	Page         *int     `json:"page"`
	Size         *int     `json:"size"`
	MinRating    *float64 `json:"min_rating"`
	HybridWeight *float64 `json:"hybrid_weight"`
}

type searchParams struct {
	query     string
	page      int
	size      int
	minRating float64
	weight    float64
}

func parseReviewSearch(c *fiber.Ctx, defSize, maxSize int, defWeight float64) (searchParams, string, bool) {
	var body reviewSearch
	if err := c.BodyParser(&body); err != nil {
		return searchParams{}, "body", false
	}
	q, ok := validate.Q(body.Query)
	if !ok {
		return searchParams{}, "query", false
	}
	p := searchParams{query: q, minRating: 3.0}
	if p.page, ok = validate.Page(c.Query("page")); !ok {
		return p, "page", false
	}
	if p.size, ok = validate.Size(c.Query("size"), defSize, maxSize); !ok {
		return p, "size", false
	}
	if p.weight, ok = validate.Weight(c.Query("hybrid_weight"), defWeight); !ok {
		return p, "hybrid_weight", false
	}
	if raw := c.Query("min_rating"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, "min_rating", false
		}
		p.minRating = r
	}

	if body.Page != nil {
		p.page = *body.Page
	}
	if body.Size != nil {
		p.size = *body.Size
	}
	if body.HybridWeight != nil {
		p.weight = *body.HybridWeight
	}
	if body.MinRating != nil {
		p.minRating = *body.MinRating
	}
	switch {
	case p.page < 1:
		return p, "page", false
	case p.size < 1 || p.size > maxSize:
		return p, "size", false
	case p.weight < 0 || p.weight > 1:
		return p, "hybrid_weight", false
	case p.minRating < 1 || p.minRating > 5:
		return p, "min_rating", false
	}
	return p, "", true
}

// POST /api/v1/reviews/search-hybrid
func (h *ReviewHandler) SearchHybrid(c *fiber.Ctx) error {
	p, field, ok := parseReviewSearch(c, 20, 100, 0.5)
	if !ok {
		return badParam(c, field)
	}
	out, err := h.Reviews.SearchHybrid(c.UserContext(), p.query, p.page, p.size, p.weight)
	if err != nil {
		return serviceError(c, "reviews.search.fail", err)
	}
	return c.JSON(out)
}

// POST /api/v1/reviews/search-products-by-reviews
func (h *ReviewHandler) SearchProducts(c *fiber.Ctx) error {
	p, field, ok := parseReviewSearch(c, 10, 50, 0.6)
	if !ok {
		return badParam(c, field)
	}
	out, err := h.Reviews.SearchProductsByReviews(c.UserContext(), p.query, p.page, p.size, p.minRating, p.weight)
	if err != nil {
		return serviceError(c, "reviews.products.fail", err)
	}
	return c.JSON(out)
}

// GET /api/v1/reviews/stats
func (h *ReviewHandler) Stats(c *fiber.Ctx) error {
	out, err := h.Reviews.Stats(c.UserContext())
	if err != nil {
		return serviceError(c, "reviews.stats.fail", err)
	}
	return c.JSON(out)
}
