package handlers

import (
	"errors"

	"commerce/internal/dashboard"
	applog "commerce/internal/log"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct{}

func period(c *fiber.Ctx) string {
	if p := c.Query("period"); p != "" {
		return p
	}
	return dashboard.DefaultPeriod
}

// GET /api/v1/admin/dashboard
func (h *AdminHandler) DashboardData(c *fiber.Ctx) error {
	snap, err := dashboard.Build(period(c))
	if errors.Is(err, dashboard.ErrUnknownPeriod) {
		return badParam(c, "period")
	}
	if err != nil {
		return serviceError(c, "admin.dashboard.fail", err)
	}
	return c.JSON(snap)
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	snap, err := dashboard.Build(period(c))
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "period"})
		c.Status(fiber.StatusBadRequest)
		return render(c, "notfound", fiber.Map{"Message": "Unknown period"})
	}
	return render(c, "admin_dashboard", fiber.Map{"D": snap})
}
