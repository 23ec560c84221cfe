package domain

type Member struct {
	MemberID string `db:"member_id" json:"member_id"`
	Name     string `db:"member_name" json:"name"`
	Email    string `db:"member_email" json:"email,omitempty"`
}

type Review struct {
	ID             string   `db:"id" json:"id"`
	Content        string   `db:"content" json:"content"`
	Rating         float64  `db:"rating" json:"rating"`
	ProductNo      string   `db:"product_no" json:"product_no"`
	MemberID       string   `db:"member_id" json:"member_id,omitempty"`
	Member         *Member  `db:"-" json:"member,omitempty"`
	CreatedAt      string   `db:"created_at" json:"created_at"`
	UpdatedAt      string   `db:"updated_at" json:"updated_at,omitempty"`
	HelpfulCount   int      `db:"helpful_count" json:"helpful_count"`
	SentimentScore *float64 `db:"sentiment_score" json:"sentiment_score,omitempty"`
}

type ReviewList struct {
	Items      []Review `json:"items"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Size       int      `json:"size"`
	TotalPages int      `json:"total_pages"`
}

// ScoredReview is a review hit from one or both legs of a hybrid search.
type ScoredReview struct {
	Review
	ProductName    string  `json:"product_name,omitempty"`
	KeywordScore   float64 `json:"keyword_score"`
	EmbeddingScore float64 `json:"embedding_score"`
	FinalScore     float64 `json:"final_score"`
	SearchType     string  `json:"search_type"` // keyword | embedding | hybrid
	Rank           int     `json:"rank"`
}

type HybridResult struct {
	Reviews        []ScoredReview `json:"reviews"`
	Total          int            `json:"total"`
	Page           int            `json:"page"`
	Size           int            `json:"size"`
	SearchMethod   string         `json:"search_method"`
	KeywordCount   int            `json:"keyword_count"`
	EmbeddingCount int            `json:"embedding_count"`
}
