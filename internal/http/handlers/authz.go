package handlers

import (
	"strings"

	"commerce/internal/domain"
	applog "commerce/internal/log"
	"commerce/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	// TokenCookie carries the bearer token for server-rendered pages.
	TokenCookie = "access_token"
	localUser   = "user"
)

func isAPI(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/api/") }

// bearer reads the token from the Authorization header, falling back to the
// page cookie.
func bearer(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Cookies(TokenCookie)
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(localUser).(*domain.User)
	return u
}

func setUser(c *fiber.Ctx, u *domain.User) {
	c.Locals(localUser, u)
	c.Locals(applog.LocalUserID, u.ID)
}

// AttachUser resolves an optional token so pages can show who is signed in.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := bearer(c); tok != "" {
			if u, err := auth.CurrentUser(tok); err == nil {
				setUser(c, u)
			}
		}
		return c.Next()
	}
}

// authenticate validates the bearer token and stores the user. It returns
// false after writing the 401 response.
func authenticate(c *fiber.Ctx, auth *services.AuthService) (*domain.User, bool) {
	tok := bearer(c)
	if tok == "" {
		_ = detail(c, fiber.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	u, err := auth.CurrentUser(tok)
	if err != nil {
		applog.Security(c, "auth.token.invalid", nil)
		_ = detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	setUser(c, u)
	return u, true
}

// RequireUser rejects API calls without a valid bearer token.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := authenticate(c, auth); !ok {
			return nil
		}
		return c.Next()
	}
}

// RequireAdmin is RequireUser plus the ADMIN role.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok := authenticate(c, auth)
		if !ok {
			return nil
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return detail(c, fiber.StatusForbidden, "Admin privileges required")
		}
		return c.Next()
	}
}

// RequireAdminPage guards server-rendered admin pages: anonymous visitors
// are sent to the login form, signed-in non-admins get a 403 page.
func RequireAdminPage(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearer(c)
		if tok == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(tok)
		if err != nil {
			return c.Redirect("/login")
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		setUser(c, u)
		return c.Next()
	}
}
