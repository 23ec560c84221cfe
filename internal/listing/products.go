package listing

import (
	"context"
	"strings"

	"commerce/internal/domain"
)

// Product list tabs.
const (
	TabKeyword = "keyword"
	TabContent = "content"
	TabReview  = "review"
)

// ProductSource is the backend a product list pages through: the services
// in process, or the HTTP API from a terminal client.
type ProductSource interface {
	SearchProducts(ctx context.Context, f domain.ProductSearch, page, size int) (domain.ProductList, error)
	SearchProductsByReviews(ctx context.Context, query string, page, size int) (domain.ProductList, error)
}

// FetchProducts maps st onto src by tab. The content tab treats the query
// as tags; the review tab with a blank query is an empty page.
func FetchProducts(ctx context.Context, src ProductSource, st State) (Page[domain.Product], error) {
	page, size := max(st.Page, 1), st.PageSize

	var (
		out domain.ProductList
		err error
	)
	switch st.Tab {
	case TabReview:
		if strings.TrimSpace(st.Query) == "" {
			return EmptyPage[domain.Product](size), nil
		}
		out, err = src.SearchProductsByReviews(ctx, st.Query, page, size)
	case TabContent:
		out, err = src.SearchProducts(ctx, domain.ProductSearch{
			Category:  st.Category,
			Tags:      strings.Fields(st.Query),
			SortBy:    st.SortKey,
			SortOrder: string(st.SortDir),
		}, page, size)
	default:
		out, err = src.SearchProducts(ctx, domain.ProductSearch{
			Query:     st.Query,
			Category:  st.Category,
			SortBy:    st.SortKey,
			SortOrder: string(st.SortDir),
		}, page, size)
	}
	if err != nil {
		return EmptyPage[domain.Product](size), err
	}
	return Page[domain.Product]{
		Items:      out.Items,
		Total:      out.Total,
		Page:       out.Page,
		Size:       out.Size,
		TotalPages: out.TotalPages,
	}, nil
}
