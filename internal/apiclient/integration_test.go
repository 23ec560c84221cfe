package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"commerce/internal/apiclient"
	"commerce/internal/cache"
	"commerce/internal/config"
	"commerce/internal/domain"
	"commerce/internal/http/handlers"
	"commerce/internal/listing"
	"commerce/internal/repos"
	"commerce/internal/search"
)

// newServer serves the real app over a seeded in-memory database.
func newServer(t *testing.T) *apiclient.Client {
	t.Helper()
	cfg := config.Config{
		Environment:     "development",
		TemplateDir:     "../../web/templates",
		JWTSecret:       "test-secret",
		TokenTTL:        30 * time.Minute,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	sc, err := search.New(search.Config{})
	if err != nil {
		t.Fatal(err)
	}
	app := handlers.NewApp(handlers.NewDeps(db, cfg, cache.New("", "", 0), sc), handlers.Limits{})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL+"/api/v1", nil)
}

func TestAuthFlow(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	if err := c.Login(ctx, "user@commerce.test", "wrong-pass"); !apiclient.IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("bad login err = %v", err)
	}
	if c.IsAuthenticated() {
		t.Fatal("failed login stored a token")
	}
	if err := c.Login(ctx, "user@commerce.test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}
	me, err := c.CurrentUser(ctx)
	if err != nil || me == nil || me.Email != "user@commerce.test" {
		t.Fatalf("me=%v err=%v", me, err)
	}
	if err := c.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if c.IsAuthenticated() {
		t.Fatal("logout kept the token")
	}

	if err := c.Register(ctx, "client@commerce.test", "secret99", "secret99"); err != nil {
		t.Fatal(err)
	}
	if err := c.Register(ctx, "client@commerce.test", "secret99", "secret99"); !apiclient.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("duplicate register err = %v", err)
	}
}

func TestCatalogCalls(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	list, err := c.SearchProducts(ctx, apiclient.ProductQuery{Tags: []string{"노이즈캔슬링"}}, 1, 10)
	if err != nil || list.Total != 2 {
		t.Fatalf("tags search total=%d err=%v", list.Total, err)
	}
	ceiling := int64(500000)
	list, err = c.SearchProducts(ctx, apiclient.ProductQuery{Brand: "apple", MaxPrice: &ceiling}, 1, 10)
	if err != nil || list.Total != 2 {
		t.Fatalf("brand search total=%d err=%v", list.Total, err)
	}

	p, err := c.GetProduct(ctx, "P1001")
	if err != nil || p.Name != "iPhone 15" {
		t.Fatalf("product=%+v err=%v", p, err)
	}
	similar, err := c.SimilarProducts(ctx, "P1001", 5)
	if err != nil || len(similar) != 2 {
		t.Fatalf("similar=%d err=%v", len(similar), err)
	}
	stats, err := c.ProductStatistics(ctx, []string{"P1001"})
	if err != nil || len(stats) != 1 || stats[0].AverageRating != 4.33 {
		t.Fatalf("stats=%+v err=%v", stats, err)
	}
	cats, err := c.Categories(ctx)
	if err != nil || len(cats) != 6 {
		t.Fatalf("categories=%d err=%v", len(cats), err)
	}
	reviews, err := c.ProductReviews(ctx, "P1001", 1, 2)
	if err != nil || reviews.Total != 3 || len(reviews.Items) != 2 {
		t.Fatalf("reviews=%+v err=%v", reviews, err)
	}
	hybrid, err := c.SearchReviewsHybrid(ctx, "배터리", 1, 10, 0.3)
	if err != nil || hybrid.Total != 5 || hybrid.Reviews[0].ID != "r-008" {
		t.Fatalf("hybrid=%+v err=%v", hybrid, err)
	}
	byReviews, err := c.SearchProductsByReviews(ctx, "배터리", 1, 10)
	if err != nil || byReviews.Total != 5 || byReviews.Items[0].ProductNo != "P2001" {
		t.Fatalf("by reviews=%+v err=%v", byReviews, err)
	}
}

func TestProductFetcherDrivesController(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()
	ctl := listing.NewController[domain.Product]("products", apiclient.ProductFetcher{Client: c}, 4)

	page, ok := ctl.Refresh(ctx)
	if !ok || page.Total != 10 || page.TotalPages != 3 || len(page.Items) != 4 {
		t.Fatalf("first page %+v", page)
	}
	if page, _ = ctl.SetPage(ctx, 3); page.Page != 3 || len(page.Items) != 2 {
		t.Fatalf("last page %+v", page)
	}
	if w := ctl.Window(); len(w) != 3 {
		t.Fatalf("window %v", w)
	}

	page, _ = ctl.SetQuery(ctx, "macbook")
	if page.Page != 1 || page.Total != 2 {
		t.Fatalf("query reset %+v", page)
	}

	// Reviews of both MacBooks match through the product name.
	page, _ = ctl.SetTab(ctx, listing.TabReview)
	if page.Total != 2 || page.Items[0].ProductNo != "P2001" || page.Items[0].MatchingReviews != 2 {
		t.Fatalf("review tab for macbook %+v", page)
	}
	if page, _ = ctl.SetQuery(ctx, "드론"); page.Total != 0 || len(page.Items) != 0 {
		t.Fatalf("nothing mentions 드론, got %+v", page)
	}
	page, _ = ctl.SetQuery(ctx, "배터리")
	if page.Total != 5 || page.Items[0].ReviewBasedScore == nil {
		t.Fatalf("review tab %+v", page)
	}

	page, _ = ctl.SetTab(ctx, listing.TabContent)
	if page.Total != 0 {
		t.Fatalf("배터리 is not a tag, got %+v", page)
	}
}
