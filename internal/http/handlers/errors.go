package handlers

import (
	"errors"

	applog "commerce/internal/log"
	"commerce/internal/services"

	"github.com/gofiber/fiber/v2"
)

// detail writes the API error body {"detail": msg}.
func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}

// serviceError maps service sentinels to status codes. Anything unknown is
// logged and reported as a generic 500.
func serviceError(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return detail(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidInput):
		return detail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		return detail(c, fiber.StatusBadRequest, "Email already registered")
	case errors.Is(err, services.ErrPasswordMismatch):
		return detail(c, fiber.StatusBadRequest, "Passwords do not match")
	case errors.Is(err, services.ErrBadCreds):
		return detail(c, fiber.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, services.ErrBadToken):
		return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
	}
	applog.Error(c, action, err, nil)
	return detail(c, fiber.StatusInternalServerError, "Internal server error")
}

// ErrorHandler is the app-wide fallback. API routes get JSON, pages get the
// notfound template. Internal messages never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code = fe.Code
		msg = fe.Message
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	if isAPI(c) {
		return detail(c, code, msg)
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
