package handlers

import (
	"commerce/internal/cache"
	"commerce/internal/config"
	"commerce/internal/repos"
	"commerce/internal/search"
	"commerce/internal/services"
	"commerce/internal/suggest"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Cfg config.Config

	Auth    *services.AuthService
	Catalog *services.CatalogService
	Stats   *services.StatisticsService
	Reviews *services.ReviewService

	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	ReviewHandler   *ReviewHandler
	SearchHandler   *SearchHandler
	ChatHandler     *ChatHandler
	AdminHandler    *AdminHandler
	HealthHandler   *HealthHandler
	PageHandler     *PageHandler
}

// NewDeps builds repositories, services and handlers over one database. c and
// sc may be disabled clients.
func NewDeps(db *sqlx.DB, cfg config.Config, c *cache.Cache, sc *search.Client) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	userRepo := repos.NewUserRepo(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo, c)
	statsSvc := services.NewStatisticsService(reviewRepo, prodRepo, c)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo, sc)
	suggestions := suggest.Default()

	return &Deps{
		Cfg:     cfg,
		Auth:    authSvc,
		Catalog: catalogSvc,
		Stats:   statsSvc,
		Reviews: reviewSvc,

		AuthHandler:     &AuthHandler{Auth: authSvc, Dev: cfg.IsDevelopment()},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Stats: statsSvc, Cfg: cfg},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ReviewHandler:   &ReviewHandler{Reviews: reviewSvc, Cfg: cfg},
		SearchHandler:   &SearchHandler{Suggestions: suggestions},
		ChatHandler:     &ChatHandler{},
		AdminHandler:    &AdminHandler{},
		HealthHandler:   &HealthHandler{DB: db, Cache: c, Search: sc},
		PageHandler: &PageHandler{
			Catalog:     catalogSvc,
			Reviews:     reviewSvc,
			Stats:       statsSvc,
			Fetcher:     &services.ProductFetcher{Catalog: catalogSvc, Reviews: reviewSvc},
			Suggestions: suggestions,
		},
	}
}
