package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"commerce/internal/cache"
	"commerce/internal/domain"
	"commerce/internal/repos"
	"commerce/internal/services"
)

// memdb opens a seeded in-memory catalog.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func catalogSvc(t *testing.T) *services.CatalogService {
	db := memdb(t)
	return services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db), cache.New("", "", 0))
}

func TestCatalogListPaging(t *testing.T) {
	svc := catalogSvc(t)
	ctx := context.Background()

	out, err := svc.ListProducts(ctx, services.ListQuery{Page: 1, Size: 4})
	if err != nil {
		t.Fatal(err)
	}
	if out.Total != 10 || out.TotalPages != 3 || len(out.Items) != 4 {
		t.Fatalf("got total=%d pages=%d items=%d", out.Total, out.TotalPages, len(out.Items))
	}

	last, err := svc.ListProducts(ctx, services.ListQuery{Page: 3, Size: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(last.Items) != 2 {
		t.Fatalf("last page has %d items", len(last.Items))
	}

	cheap, err := svc.ListProducts(ctx, services.ListQuery{Page: 1, Size: 1, SortBy: "price", SortOrder: "asc"})
	if err != nil {
		t.Fatal(err)
	}
	if cheap.Items[0].ProductNo != "P5001" {
		t.Fatalf("cheapest = %s", cheap.Items[0].ProductNo)
	}
}

func TestCatalogSearchFilters(t *testing.T) {
	svc := catalogSvc(t)
	ctx := context.Background()

	laptops, err := svc.Search(ctx, domain.ProductSearch{Category: "노트북"}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if laptops.Total != 3 {
		t.Fatalf("laptops = %d", laptops.Total)
	}

	ceiling := int64(500000)
	apple, err := svc.Search(ctx, domain.ProductSearch{Brand: "apple", MaxPrice: &ceiling}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	// AirPods Pro 2 and the silicone case
	if apple.Total != 2 {
		t.Fatalf("cheap apple = %d", apple.Total)
	}
	for _, p := range apple.Items {
		if p.Price > ceiling || p.Brand != "Apple" {
			t.Fatalf("filter leaked %+v", p)
		}
	}

	q, err := svc.Search(ctx, domain.ProductSearch{Query: "macbook"}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if q.Total != 2 {
		t.Fatalf("macbook = %d", q.Total)
	}
}

func TestCatalogGetProduct(t *testing.T) {
	svc := catalogSvc(t)
	ctx := context.Background()

	p, err := svc.GetProduct(ctx, "P1001")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "iPhone 15" || p.ReviewCount != 3 {
		t.Fatalf("got %+v", p)
	}
	again, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.ViewCount != p.ViewCount+1 {
		t.Fatalf("view count %d -> %d", p.ViewCount, again.ViewCount)
	}

	if _, err := svc.GetProduct(ctx, "nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	similar, err := svc.Similar(ctx, "P1001", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(similar) != 2 {
		t.Fatalf("similar = %d", len(similar))
	}
	for _, s := range similar {
		if s.Category != "스마트폰" || s.ProductNo == "P1001" {
			t.Fatalf("unexpected similar product %+v", s)
		}
	}
}

func TestCatalogAdminWrites(t *testing.T) {
	svc := catalogSvc(t)
	ctx := context.Background()

	cats, err := svc.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var audio int64
	for _, c := range cats.Items {
		if c.Name == "오디오" {
			audio = c.ID
		}
	}
	if audio == 0 {
		t.Fatal("audio category not seeded")
	}

	in := domain.ProductInput{ProductNo: "P3003", Name: "Galaxy Buds3", Price: 229000, CategoryID: audio, Brand: "Samsung", Tags: []string{" 이어폰 ", ""}}
	p, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Active || len(p.Tags) != 1 || p.Tags[0] != "이어폰" {
		t.Fatalf("created %+v", p)
	}

	if _, err := svc.Create(ctx, in); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("duplicate product_no: %v", err)
	}
	bad := in
	bad.ProductNo, bad.CategoryID = "P3004", 9999
	if _, err := svc.Create(ctx, bad); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("unknown category: %v", err)
	}

	in.Price = 199000
	up, err := svc.Update(ctx, p.ID, in)
	if err != nil {
		t.Fatal(err)
	}
	if up.Price != 199000 {
		t.Fatalf("price = %d", up.Price)
	}
	clash := in
	clash.ProductNo = "P1001"
	if _, err := svc.Update(ctx, p.ID, clash); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("product_no clash: %v", err)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, p.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestCatalogStatsAndBrands(t *testing.T) {
	svc := catalogSvc(t)
	ctx := context.Background()

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalProducts != 10 || st.TotalCategories != 6 || st.TotalReviews != 17 {
		t.Fatalf("stats %+v", st)
	}
	brands, err := svc.Brands(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Apple", "LG", "Nintendo", "Samsung", "Sony"}
	if len(brands) != len(want) {
		t.Fatalf("brands %v", brands)
	}
	for i := range want {
		if brands[i] != want[i] {
			t.Fatalf("brands %v", brands)
		}
	}
}
