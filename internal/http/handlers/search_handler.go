package handlers

import (
	"commerce/internal/suggest"

	"github.com/gofiber/fiber/v2"
)

// SearchHandler backs the search box: type-ahead suggestions.
type SearchHandler struct {
	Suggestions *suggest.Source
}

type suggestionView struct {
	suggest.Suggestion
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// GET /api/v1/suggestions?q=
func (h *SearchHandler) Suggest(c *fiber.Ctx) error {
	found := h.Suggestions.Filter(c.Query("q"))
	items := make([]suggestionView, 0, len(found))
	for _, s := range found {
		items = append(items, suggestionView{Suggestion: s, Label: s.Type.Label(), Icon: s.Type.Icon()})
	}
	return c.JSON(fiber.Map{"items": items, "total": len(items)})
}
