package handlers

import (
	"errors"
	"strconv"
	"strings"

	"commerce/internal/config"
	"commerce/internal/domain"
	applog "commerce/internal/log"
	"commerce/internal/services"
	"commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Stats   *services.StatisticsService
	Cfg     config.Config
}

var sortKeys = map[string]bool{
	"": true, "created_at": true, "price": true, "rating": true, "review_count": true,
	"name": true, "view_count": true, "sales_count": true,
}

func (h *ProductHandler) paging(c *fiber.Ctx) (int, int, bool) {
	page, ok := validate.Page(c.Query("page"))
	if !ok {
		return 0, 0, false
	}
	size, ok := validate.Size(c.Query("size"), h.Cfg.DefaultPageSize, h.Cfg.MaxPageSize)
	return page, size, ok
}

func badParam(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return detail(c, fiber.StatusUnprocessableEntity, "invalid "+field)
}

// GET /api/v1/products/
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, size, ok := h.paging(c)
	if !ok {
		return badParam(c, "page or size")
	}
	q := services.ListQuery{
		Page:     page,
		Size:     size,
		Category: strings.TrimSpace(c.Query("category")),
		Brand:    strings.TrimSpace(c.Query("brand")),
		SortBy:   c.Query("sort_by"),
	}
	if q.MinPrice, ok = validate.OptInt64(c.Query("min_price")); !ok {
		return badParam(c, "min_price")
	}
	if q.MaxPrice, ok = validate.OptInt64(c.Query("max_price")); !ok {
		return badParam(c, "max_price")
	}
	if !sortKeys[q.SortBy] {
		return badParam(c, "sort_by")
	}
	if q.SortOrder, ok = validate.SortOrder(c.Query("sort_order")); !ok {
		return badParam(c, "sort_order")
	}
	out, err := h.Catalog.ListProducts(c.UserContext(), q)
	if err != nil {
		return serviceError(c, "products.list.fail", err)
	}
	return c.JSON(out)
}

// searchFilter reads the search filters from the query string. Values are
// parsed here and range-checked by checkSearch.
func searchFilter(c *fiber.Ctx) (domain.ProductSearch, string, bool) {
	f := domain.ProductSearch{
		Query:     c.Query("query"),
		Category:  c.Query("category"),
		Brand:     c.Query("brand"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	var ok bool
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return f, "category_id", false
		}
		f.CategoryID = id
	}
	if f.MinPrice, ok = validate.OptInt64(c.Query("min_price")); !ok {
		return f, "min_price", false
	}
	if f.MaxPrice, ok = validate.OptInt64(c.Query("max_price")); !ok {
		return f, "max_price", false
	}
	if raw := c.Query("min_rating"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, "min_rating", false
		}
		f.MinRating = &r
	}
	if raw := c.Query("tags"); raw != "" {
		f.Tags = strings.Split(raw, ",")
	}
	return f, "", true
}

// checkSearch validates and normalizes a filter set, wherever it came from.
func checkSearch(f *domain.ProductSearch) (string, bool) {
	var ok bool
	f.Category = strings.TrimSpace(f.Category)
	f.Brand = strings.TrimSpace(f.Brand)
	if strings.TrimSpace(f.Query) == "" {
		f.Query = ""
	} else if f.Query, ok = validate.Q(f.Query); !ok {
		return "query", false
	}
	if f.CategoryID < 0 {
		return "category_id", false
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return "min_price", false
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return "max_price", false
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return "min_rating", false
	}
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	f.Tags = tags
	if !sortKeys[f.SortBy] {
		return "sort_by", false
	}
	if f.SortOrder, ok = validate.SortOrder(f.SortOrder); !ok {
		return "sort_order", false
	}
	return "", true
}

// GET|POST /api/v1/products/search
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	page, size, ok := h.paging(c)
	if !ok {
		return badParam(c, "page or size")
	}
	f, field, ok := searchFilter(c)
	if !ok {
		return badParam(c, field)
	}
	// POST may carry the filters as a JSON body instead.
	if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		if err := c.BodyParser(&f); err != nil {
			return badParam(c, "body")
		}
	}
	if field, ok := checkSearch(&f); !ok {
		return badParam(c, field)
	}
	out, err := h.Catalog.Search(c.UserContext(), f, page, size)
	if err != nil {
		return serviceError(c, "products.search.fail", err)
	}
	return c.JSON(out)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return detail(c, fiber.StatusNotFound, "Product not found")
		}
		return serviceError(c, "products.get.fail", err)
	}
	return c.JSON(p)
}

// GET /api/v1/products/similar/:id
func (h *ProductHandler) Similar(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}
	size, ok := validate.Size(c.Query("size"), 10, 50)
	if !ok {
		return badParam(c, "size")
	}
	items, err := h.Catalog.Similar(c.UserContext(), id, size)
	if err != nil {
		return serviceError(c, "products.similar.fail", err)
	}
	return c.JSON(domain.ProductList{Items: items, Total: len(items), Page: 1, Size: size, TotalPages: 1})
}

type statisticsRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// POST /api/v1/products/statistics
func (h *ProductHandler) Statistics(c *fiber.Ctx) error {
	var req statisticsRequest
	if err := c.BodyParser(&req); err != nil {
		return badParam(c, "body")
	}
	if len(req.ProductIDs) == 0 || len(req.ProductIDs) > 100 {
		return badParam(c, "product_ids")
	}
	for i, id := range req.ProductIDs {
		no, ok := validate.ProductNo(id)
		if !ok {
			return badParam(c, "product_ids")
		}
		req.ProductIDs[i] = no
	}
	out, err := h.Stats.ForProducts(c.UserContext(), req.ProductIDs)
	if err != nil {
		return serviceError(c, "products.statistics.fail", err)
	}
	return c.JSON(out)
}

// GET /api/v1/products/stats/overview
func (h *ProductHandler) Overview(c *fiber.Ctx) error {
	out, err := h.Catalog.Stats(c.UserContext())
	if err != nil {
		return serviceError(c, "products.stats.fail", err)
	}
	return c.JSON(out)
}

// POST /api/v1/products/ (admin)
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badParam(c, "body")
	}
	p, err := h.Catalog.Create(c.UserContext(), in)
	if err != nil {
		return serviceError(c, "products.create.fail", err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": p.ID, "product_no": p.ProductNo})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/products/:id (admin)
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badParam(c, "body")
	}
	p, err := h.Catalog.Update(c.UserContext(), id, in)
	if err != nil {
		return serviceError(c, "products.update.fail", err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": p.ID})
	return c.JSON(p)
}

// DELETE /api/v1/products/:id (admin)
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return detail(c, fiber.StatusNotFound, "Product not found")
	}
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		return serviceError(c, "products.delete.fail", err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
