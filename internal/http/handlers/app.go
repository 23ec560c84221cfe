package handlers

import (
	"path/filepath"
	"strings"
	"time"

	"commerce/internal/format"
	applog "commerce/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
)

// Limits are per-IP request budgets. Zero fields take the defaults.
type Limits struct {
	Global      int
	GlobalEvery time.Duration
	Login       int
	LoginEvery  time.Duration
	Search      int
	SearchEvery time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.Global == 0 {
		l.Global = 120
	}
	if l.GlobalEvery == 0 {
		l.GlobalEvery = time.Minute
	}
	if l.Login == 0 {
		l.Login = 5
	}
	if l.LoginEvery == 0 {
		l.LoginEvery = 10 * time.Minute
	}
	if l.Search == 0 {
		l.Search = 30
	}
	if l.SearchEvery == 0 {
		l.SearchEvery = time.Minute
	}
	return l
}

// Views loads the page templates with the storefront helpers.
func Views(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("price", format.Price)
	engine.AddFunc("count", func(n int) string { return format.Count(int64(n)) })
	engine.AddFunc("percent", format.Percent)
	engine.AddFunc("change", format.Change)
	engine.AddFunc("rating", format.Rating)
	return engine
}

// NewApp wires middleware and every route onto a fresh fiber app.
func NewApp(d *Deps, lim Limits) *fiber.App {
	lim = lim.withDefaults()
	app := fiber.New(fiber.Config{
		Views:        Views(d.Cfg.TemplateDir, d.Cfg.IsDevelopment()),
		ErrorHandler: ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(applog.AccessMiddleware("/api/v1/health"))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        lim.Global,
		Expiration: lim.GlobalEvery,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests")
		},
	}))
	app.Use(AttachUser(d.Auth))
	// Forms only; the API authenticates with bearer tokens.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Next:           isAPI,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			c.Status(fiber.StatusForbidden)
			return render(c, "notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))

	app.Static("/static", filepath.Join(filepath.Dir(d.Cfg.TemplateDir), "static"))

	loginLimiter := func(page bool) fiber.Handler {
		return limiter.New(limiter.Config{
			Max:        lim.Login,
			Expiration: lim.LoginEvery,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|login"
			},
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.login.hit", nil)
				if page {
					c.Status(fiber.StatusTooManyRequests)
					return render(c, "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
				}
				return detail(c, fiber.StatusTooManyRequests, "Too many login attempts. Please try again later.")
			},
		})
	}
	searchLimiter := limiter.New(limiter.Config{
		Max:        lim.Search,
		Expiration: lim.SearchEvery,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|search"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return detail(c, fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
		},
	})

	api := app.Group("/api/v1")

	products := api.Group("/products")
	products.Get("/", d.ProductHandler.List)
	products.Post("/", RequireAdmin(d.Auth), d.ProductHandler.Create)
	products.Get("/search", searchLimiter, d.ProductHandler.Search)
	products.Post("/search", searchLimiter, d.ProductHandler.Search)
	products.Get("/stats/overview", d.ProductHandler.Overview)
	products.Get("/categories", d.CategoryHandler.Categories)
	products.Get("/categories/list", d.CategoryHandler.Categories)
	products.Get("/brands", d.CategoryHandler.Brands)
	products.Get("/brands/list", d.CategoryHandler.Brands)
	products.Post("/statistics", d.ProductHandler.Statistics)
	products.Get("/similar/:id", d.ProductHandler.Similar)
	products.Get("/:id", d.ProductHandler.Get)
	products.Put("/:id", RequireAdmin(d.Auth), d.ProductHandler.Update)
	products.Delete("/:id", RequireAdmin(d.Auth), d.ProductHandler.Delete)

	reviews := api.Group("/reviews")
	reviews.Get("/products/:id/reviews", d.ReviewHandler.ProductReviews)
	reviews.Post("/search-hybrid", searchLimiter, d.ReviewHandler.SearchHybrid)
	reviews.Post("/search-products-by-reviews", searchLimiter, d.ReviewHandler.SearchProducts)
	reviews.Get("/stats", d.ReviewHandler.Stats)

	auth := api.Group("/auth")
	auth.Post("/login", loginLimiter(false), d.AuthHandler.Login)
	auth.Post("/register", d.AuthHandler.Register)
	auth.Get("/me", RequireUser(d.Auth), d.AuthHandler.Me)
	auth.Post("/logout", d.AuthHandler.Logout)
	auth.Post("/init-admin", d.AuthHandler.InitAdmin)

	api.Post("/chat", d.ChatHandler.Reply)
	api.Get("/chat/greeting", d.ChatHandler.Greeting)
	api.Get("/suggestions", d.SearchHandler.Suggest)
	api.Get("/admin/dashboard", RequireAdmin(d.Auth), d.AdminHandler.DashboardData)
	api.Get("/health", d.HealthHandler.Check)

	// Pages
	app.Get("/", d.PageHandler.Home)
	app.Get("/products", d.PageHandler.Products)
	app.Get("/products/:id", d.PageHandler.Product)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", loginLimiter(true), d.AuthHandler.LoginPage)
	app.Post("/logout", d.AuthHandler.LogoutPage)
	app.Get("/admin", RequireAdminPage(d.Auth), d.AdminHandler.Dashboard)

	app.Use(func(c *fiber.Ctx) error {
		if isAPI(c) {
			return detail(c, fiber.StatusNotFound, "Not found")
		}
		return notFound(c, "Page not found")
	})
	return app
}
