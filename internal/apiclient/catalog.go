package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"commerce/internal/domain"
)

// Defaults of the review-based product search.
const (
	ReviewMinRating    = 3.0
	ReviewHybridWeight = 0.6
)

// ProductQuery mirrors the filters of GET /products/search.
type ProductQuery struct {
	Query      string
	Category   string
	CategoryID int64
	Brand      string
	MinPrice   *int64
	MaxPrice   *int64
	MinRating  *float64
	Tags       []string
	SortBy     string
	SortOrder  string
}

func (q ProductQuery) values(page, size int) url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("query", q.Query)
	set("category", q.Category)
	set("brand", q.Brand)
	set("sort_by", q.SortBy)
	set("sort_order", q.SortOrder)
	set("tags", strings.Join(q.Tags, ","))
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.MinPrice != nil {
		v.Set("min_price", strconv.FormatInt(*q.MinPrice, 10))
	}
	if q.MaxPrice != nil {
		v.Set("max_price", strconv.FormatInt(*q.MaxPrice, 10))
	}
	if q.MinRating != nil {
		v.Set("min_rating", strconv.FormatFloat(*q.MinRating, 'f', -1, 64))
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))
	return v
}

func (c *Client) SearchProducts(ctx context.Context, q ProductQuery, page, size int) (domain.ProductList, error) {
	var out domain.ProductList
	err := c.do(ctx, http.MethodGet, "/products/search", q.values(page, size), nil, &out)
	return out, err
}

// SearchProductsByReviews ranks products by how well their reviews match
// query, counting reviews rated ReviewMinRating or better.
func (c *Client) SearchProductsByReviews(ctx context.Context, query string, page, size int) (domain.ProductList, error) {
	body := map[string]any{
		"query":         query,
		"page":          page,
		"size":          size,
		"min_rating":    ReviewMinRating,
		"hybrid_weight": ReviewHybridWeight,
	}
	var out domain.ProductList
	err := c.do(ctx, http.MethodPost, "/reviews/search-products-by-reviews", nil, body, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) SimilarProducts(ctx context.Context, id string, size int) ([]domain.Product, error) {
	var out domain.ProductList
	q := url.Values{"size": {strconv.Itoa(size)}}
	if err := c.do(ctx, http.MethodGet, "/products/similar/"+url.PathEscape(id), q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ProductStatistics(ctx context.Context, productNos []string) ([]domain.ProductStatistics, error) {
	var out []domain.ProductStatistics
	err := c.do(ctx, http.MethodPost, "/products/statistics", nil, map[string]any{"product_ids": productNos}, &out)
	return out, err
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out domain.CategoryList
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ProductReviews(ctx context.Context, productNo string, page, size int) (domain.ReviewList, error) {
	var out domain.ReviewList
	q := url.Values{"page": {strconv.Itoa(page)}, "size": {strconv.Itoa(size)}}
	err := c.do(ctx, http.MethodGet, "/reviews/products/"+url.PathEscape(productNo)+"/reviews", q, nil, &out)
	return out, err
}

func (c *Client) SearchReviewsHybrid(ctx context.Context, query string, page, size int, weight float64) (domain.HybridResult, error) {
	body := map[string]any{"query": query, "page": page, "size": size, "hybrid_weight": weight}
	var out domain.HybridResult
	err := c.do(ctx, http.MethodPost, "/reviews/search-hybrid", nil, body, &out)
	return out, err
}
