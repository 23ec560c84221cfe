package handlers

import (
	"commerce/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler serves the catalog taxonomy: categories and brands.
type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products/categories
func (h *CategoryHandler) Categories(c *fiber.Ctx) error {
	out, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		return serviceError(c, "categories.list.fail", err)
	}
	return c.JSON(out)
}

// GET /api/v1/products/brands
func (h *CategoryHandler) Brands(c *fiber.Ctx) error {
	out, err := h.Catalog.Brands(c.UserContext())
	if err != nil {
		return serviceError(c, "brands.list.fail", err)
	}
	return c.JSON(out)
}
