package handlers

import (
	"commerce/internal/cache"
	"commerce/internal/search"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

type HealthHandler struct {
	DB     *sqlx.DB
	Cache  *cache.Cache
	Search *search.Client
}

func status(enabled bool, err error) string {
	switch {
	case !enabled:
		return "disabled"
	case err != nil:
		return "down"
	}
	return "ok"
}

// GET /api/v1/health reports each backing store. Only the database is
// required; cache and search degrade gracefully.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx := c.UserContext()
	dbErr := h.DB.PingContext(ctx)
	out := fiber.Map{
		"status":   "ok",
		"database": status(true, dbErr),
		"cache":    status(h.Cache.Enabled(), h.Cache.Ping(ctx)),
		"search":   status(h.Search.Enabled(), h.Search.Ping(ctx)),
	}
	if dbErr != nil {
		out["status"] = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}
