package handlers

import (
	"errors"
	"time"

	"commerce/internal/log"
	"commerce/internal/services"
	"commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
	Dev  bool
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badParam(c, "body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return detail(c, fiber.StatusUnauthorized, "Incorrect email or password")
	}
	tok, u, err := h.Auth.Login(email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			log.Security(c, "auth.login.fail", map[string]any{"email": email})
		}
		return serviceError(c, "auth.login.error", err)
	}
	c.Locals(log.LocalUserID, u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"access_token": tok, "token_type": "bearer"})
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badParam(c, "body")
	}
	u, err := h.Auth.Register(req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		return serviceError(c, "auth.register.error", err)
	}
	log.Audit(c, "auth.register", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{"email": u.Email})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"email": currentUser(c).Email})
}

// POST /api/v1/auth/logout. Tokens are stateless; clients drop theirs.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

// POST /api/v1/auth/init-admin creates the default admin in development.
func (h *AuthHandler) InitAdmin(c *fiber.Ctx) error {
	if !h.Dev {
		return detail(c, fiber.StatusNotFound, "Not found")
	}
	created, err := h.Auth.EnsureAdmin(services.DefaultAdminEmail, services.DefaultAdminPassword)
	if err != nil {
		return serviceError(c, "auth.init_admin.error", err)
	}
	if !created {
		return c.JSON(fiber.Map{"message": "Admin user already exists"})
	}
	log.Audit(c, "auth.init_admin", map[string]any{"email": services.DefaultAdminEmail})
	return c.JSON(fiber.Map{"message": "Admin user created: " + services.DefaultAdminEmail})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": "", "Next": c.Query("next")})
}

// POST /login stores the token in an HttpOnly cookie for the page routes.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	var req loginRequest
	_ = c.BodyParser(&req)
	fail := func() error {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "via": "form"})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": "Incorrect email or password"})
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return fail()
	}
	tok, u, err := h.Auth.Login(email, req.Password)
	if err != nil {
		return fail()
	}
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    tok,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.Auth.TTL),
	})
	c.Locals(log.LocalUserID, u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email, "via": "form"})
	if u.IsAdmin() {
		return c.Redirect("/admin")
	}
	return c.Redirect("/")
}

func (h *AuthHandler) LogoutPage(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	return c.Redirect("/")
}
