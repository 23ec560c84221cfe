package services

import (
	"context"

	"commerce/internal/domain"
	"commerce/internal/listing"
)

// reviewTabWeight and reviewTabMinRating are what the storefront sends for
// review-based results.
const (
	reviewTabWeight    = 0.6
	reviewTabMinRating = 3.0
)

// ProductFetcher serves listing state straight from the services, so the
// storefront pages page and filter exactly like API clients do.
type ProductFetcher struct {
	Catalog *CatalogService
	Reviews *ReviewService
}

func (f ProductFetcher) Fetch(ctx context.Context, st listing.State) (listing.Page[domain.Product], error) {
	return listing.FetchProducts(ctx, f, st)
}

func (f ProductFetcher) SearchProducts(ctx context.Context, s domain.ProductSearch, page, size int) (domain.ProductList, error) {
	return f.Catalog.Search(ctx, s, page, size)
}

func (f ProductFetcher) SearchProductsByReviews(ctx context.Context, query string, page, size int) (domain.ProductList, error) {
	return f.Reviews.SearchProductsByReviews(ctx, query, page, size, reviewTabMinRating, reviewTabWeight)
}
