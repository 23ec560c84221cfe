package domain

type Category struct {
	ID        int64  `db:"id" json:"category_id"`
	Name      string `db:"name" json:"category_name"`
	Code      string `db:"code" json:"category_code,omitempty"`
	ParentID  *int64 `db:"parent_id" json:"parent_category_id,omitempty"`
	Depth     int    `db:"depth" json:"depth"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type CategoryList struct {
	Items []Category `json:"items"`
	Total int        `json:"total"`
}

type Product struct {
	ID          string   `db:"id" json:"id"`
	ProductNo   string   `db:"product_no" json:"product_no"`
	Name        string   `db:"name" json:"name"`
	Price       int64    `db:"price" json:"price"` // KRW, whole won
	Rating      float64  `db:"rating" json:"rating"`
	ImageURL    string   `db:"image_url" json:"image_url,omitempty"`
	CategoryID  int64    `db:"category_id" json:"category_id"`
	Category    string   `db:"category" json:"category"`
	Description string   `db:"description" json:"description"`
	ReviewCount int      `db:"review_count" json:"review_count"`
	Brand       string   `db:"brand" json:"brand,omitempty"`
	TagsJSON    string   `db:"tags_json" json:"-"`
	Tags        []string `db:"-" json:"tags,omitempty"`
	Active      bool     `db:"active" json:"is_active"`
	ViewCount   int      `db:"view_count" json:"view_count"`
	SalesCount  int      `db:"sales_count" json:"sales_count"`
	CreatedAt   string   `db:"created_at" json:"created_at"`
	UpdatedAt   string   `db:"updated_at" json:"updated_at"`

	// Set only on review-based search results.
	ReviewBasedScore *float64 `db:"-" json:"review_based_score,omitempty"`
	MatchingReviews  int      `db:"-" json:"matching_reviews,omitempty"`
}

// ProductList is the paging envelope shared by every list endpoint.
type ProductList struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalPages int       `json:"total_pages"`
}

// ProductSearch carries the optional filters accepted by product search.
type ProductSearch struct {
	Query      string   `json:"query,omitempty"`
	Category   string   `json:"category,omitempty"`
	CategoryID int64    `json:"category_id,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	MinPrice   *int64   `json:"min_price,omitempty"`
	MaxPrice   *int64   `json:"max_price,omitempty"`
	MinRating  *float64 `json:"min_rating,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	SortBy     string   `json:"sort_by,omitempty"`
	SortOrder  string   `json:"sort_order,omitempty"`
}

type ProductInput struct {
	ProductNo   string   `json:"product_no"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	CategoryID  int64    `json:"category_id"`
	Brand       string   `json:"brand"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
	Active      *bool    `json:"is_active"`
}

type ProductStats struct {
	TotalProducts   int     `db:"total_products" json:"total_products"`
	TotalCategories int     `db:"total_categories" json:"total_categories"`
	TotalBrands     int     `db:"total_brands" json:"total_brands"`
	AveragePrice    float64 `db:"average_price" json:"average_price"`
	AverageRating   float64 `db:"average_rating" json:"average_rating"`
	TotalReviews    int     `db:"total_reviews" json:"total_reviews"`
	TotalSales      int     `db:"total_sales" json:"total_sales"`
	TotalViews      int     `db:"total_views" json:"total_views"`
}

// ProductStatistics is the per-product review rollup.
type ProductStatistics struct {
	ProductNo          string  `db:"product_no" json:"product_no"`
	TotalReviews       int     `db:"total_reviews" json:"total_reviews"`
	AverageRating      float64 `db:"average_rating" json:"average_rating"`
	RatingDistribution string  `db:"rating_distribution" json:"rating_distribution"`
	LastReviewDate     string  `db:"last_review_date" json:"last_review_date"`
	ReviewVelocity     float64 `db:"review_velocity" json:"review_velocity"`
}
