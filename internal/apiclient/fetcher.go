package apiclient

import (
	"context"

	"commerce/internal/domain"
	"commerce/internal/listing"
)

// ProductFetcher serves a listing.Controller from the API. The server's
// envelope is trusted as is.
type ProductFetcher struct {
	Client *Client
}

func (f ProductFetcher) Fetch(ctx context.Context, st listing.State) (listing.Page[domain.Product], error) {
	return listing.FetchProducts(ctx, f, st)
}

func (f ProductFetcher) SearchProducts(ctx context.Context, s domain.ProductSearch, page, size int) (domain.ProductList, error) {
	return f.Client.SearchProducts(ctx, ProductQuery(s), page, size)
}

func (f ProductFetcher) SearchProductsByReviews(ctx context.Context, query string, page, size int) (domain.ProductList, error) {
	return f.Client.SearchProductsByReviews(ctx, query, page, size)
}
