package listing_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"commerce/internal/domain"
	"commerce/internal/listing"
)

type recordingSource struct {
	search      []domain.ProductSearch
	reviewQuery []string
	page, size  int
	err         error
}

func (s *recordingSource) SearchProducts(_ context.Context, f domain.ProductSearch, page, size int) (domain.ProductList, error) {
	s.search = append(s.search, f)
	s.page, s.size = page, size
	return domain.ProductList{Items: []domain.Product{{ProductNo: "P1"}}, Total: 1, Page: page, Size: size, TotalPages: 1}, s.err
}

func (s *recordingSource) SearchProductsByReviews(_ context.Context, q string, page, size int) (domain.ProductList, error) {
	s.reviewQuery = append(s.reviewQuery, q)
	return domain.ProductList{Total: 0, Page: page, Size: size}, s.err
}

func TestFetchProductsByTab(t *testing.T) {
	ctx := context.Background()
	src := &recordingSource{}
	st := listing.State{Filter: listing.Filter{Query: "gaming rgb", Category: "노트북", SortKey: "price", SortDir: listing.Desc}, PageSize: 5}

	p, err := listing.FetchProducts(ctx, src, st)
	if err != nil || p.Total != 1 || p.Items[0].ProductNo != "P1" {
		t.Fatalf("keyword page = %+v, %v", p, err)
	}
	if src.page != 1 || src.size != 5 {
		t.Fatalf("page 0 should ask for page 1, got %d/%d", src.page, src.size)
	}
	want := domain.ProductSearch{Query: "gaming rgb", Category: "노트북", SortBy: "price", SortOrder: "desc"}
	if !reflect.DeepEqual(src.search[0], want) {
		t.Fatalf("keyword search = %+v", src.search[0])
	}

	st.Tab = listing.TabContent
	if _, err := listing.FetchProducts(ctx, src, st); err != nil {
		t.Fatal(err)
	}
	want = domain.ProductSearch{Category: "노트북", Tags: []string{"gaming", "rgb"}, SortBy: "price", SortOrder: "desc"}
	if !reflect.DeepEqual(src.search[1], want) {
		t.Fatalf("content search = %+v", src.search[1])
	}

	st.Tab = listing.TabReview
	if _, err := listing.FetchProducts(ctx, src, st); err != nil || !reflect.DeepEqual(src.reviewQuery, []string{"gaming rgb"}) {
		t.Fatalf("review queries = %v, %v", src.reviewQuery, err)
	}
	st.Query = "  "
	p, err = listing.FetchProducts(ctx, src, st)
	if err != nil || p.Total != 0 || len(src.reviewQuery) != 1 {
		t.Fatalf("blank review query should not reach the source: %+v %v", p, err)
	}
}

func TestFetchProductsError(t *testing.T) {
	boom := errors.New("down")
	src := &recordingSource{err: boom}
	p, err := listing.FetchProducts(context.Background(), src, listing.State{PageSize: 3})
	if !errors.Is(err, boom) || len(p.Items) != 0 || p.Size != 3 {
		t.Fatalf("page = %+v, err = %v", p, err)
	}
}
