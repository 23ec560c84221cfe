package handlers

import (
	"strings"

	"commerce/internal/chatbot"
	applog "commerce/internal/log"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct{}

type chatRequest struct {
	Message string `json:"message"`
}

// POST /api/v1/chat
func (h *ChatHandler) Reply(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return badParam(c, "body")
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" || len([]rune(msg)) > 500 {
		return badParam(c, "message")
	}
	reply, intent := chatbot.Respond(msg)
	applog.Info(c, "chat.reply", map[string]any{"intent": string(intent)})
	return c.JSON(fiber.Map{"reply": reply, "intent": intent})
}

// GET /api/v1/chat/greeting
func (h *ChatHandler) Greeting(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"reply": chatbot.Greeting, "intent": chatbot.IntentHelp})
}
