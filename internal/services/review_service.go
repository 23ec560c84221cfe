package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"commerce/internal/domain"
	"commerce/internal/listing"
	applog "commerce/internal/log"
	"commerce/internal/repos"
	"commerce/internal/search"
)

const (
	SearchKeyword   = "keyword"
	SearchEmbedding = "embedding"
	SearchHybrid    = "hybrid"

	// fallbackPool caps how many reviews the SQL keyword leg scores.
	fallbackPool = 200
)

type ReviewService struct {
	Reviews  *repos.ReviewRepo
	Prods    *repos.ProductRepo
	Search   *search.Client
	Embedder search.Embedder // optional; nil disables the vector leg
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo, sc *search.Client) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods, Search: sc}
}

// ProductReviews pages a product's reviews, newest first.
func (s *ReviewService) ProductReviews(_ context.Context, productNo string, page, size int) (domain.ReviewList, error) {
	total, err := s.Reviews.CountByProduct(productNo)
	if err != nil {
		return domain.ReviewList{}, err
	}
	rows, err := s.Reviews.ListByProduct(productNo, size, (page-1)*size)
	if err != nil {
		return domain.ReviewList{}, err
	}
	items := make([]domain.Review, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.WithMember())
	}
	return domain.ReviewList{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: listing.TotalPages(total, size),
	}, nil
}

// SearchHybrid blends the keyword and vector legs with weight w on the vector
// side and returns the best size reviews.
func (s *ReviewService) SearchHybrid(ctx context.Context, query string, page, size int, w float64) (domain.HybridResult, error) {
	kw, err := s.keywordLeg(ctx, query, page, size)
	if err != nil {
		return domain.HybridResult{}, err
	}
	emb := s.embeddingLeg(ctx, query, size)

	ranked := RankReviews(MergeHybrid(kw, emb, w), size)
	method := SearchKeyword
	if s.vectorEnabled() {
		method = SearchHybrid
	}
	return domain.HybridResult{
		Reviews:        ranked,
		Total:          len(ranked),
		Page:           page,
		Size:           size,
		SearchMethod:   method,
		KeywordCount:   len(kw),
		EmbeddingCount: len(emb),
	}, nil
}

func (s *ReviewService) vectorEnabled() bool {
	return s.Embedder != nil && s.Search.Enabled()
}

// keywordLeg asks Elasticsearch when configured and falls back to scoring
// SQL matches locally when it is not, or when the cluster errors.
func (s *ReviewService) keywordLeg(ctx context.Context, query string, page, size int) ([]domain.ScoredReview, error) {
	if s.Search.Enabled() {
		hits, err := s.Search.Keyword(ctx, query, page, size)
		if err == nil {
			out := make([]domain.ScoredReview, 0, len(hits))
			for _, h := range hits {
				sr := fromDoc(h)
				sr.KeywordScore = h.Score
				sr.SearchType = SearchKeyword
				out = append(out, sr)
			}
			return out, nil
		}
		applog.Error(nil, "review.search.keyword.fail", err, map[string]any{"query": query})
	}

	terms := strings.Fields(strings.ToLower(query))
	rows, err := s.Reviews.MatchAny(terms, fallbackPool)
	if err != nil {
		return nil, fmt.Errorf("keyword fallback: %w", err)
	}
	scored := make([]domain.ScoredReview, 0, len(rows))
	for _, r := range rows {
		score := KeywordScore(query, r.Content, r.ProductName, r.ProductBrand)
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.ScoredReview{
			Review:       r.WithMember(),
			ProductName:  r.ProductName,
			KeywordScore: score,
			SearchType:   SearchKeyword,
		})
	}
	slices.SortStableFunc(scored, compareScored(func(r domain.ScoredReview) float64 { return r.KeywordScore }))

	from := min((page-1)*size, len(scored))
	to := min(from+2*size, len(scored))
	return scored[from:to], nil
}

func (s *ReviewService) embeddingLeg(ctx context.Context, query string, size int) []domain.ScoredReview {
	if !s.vectorEnabled() {
		return nil
	}
	vec, err := s.Embedder.Embed(ctx, query)
	if err != nil || len(vec) == 0 {
		applog.Error(nil, "review.search.embed.fail", err, map[string]any{"query": query})
		return nil
	}
	hits, err := s.Search.Vector(ctx, vec, size)
	if err != nil {
		applog.Error(nil, "review.search.vector.fail", err, map[string]any{"query": query})
		return nil
	}
	out := make([]domain.ScoredReview, 0, len(hits))
	for _, h := range hits {
		sr := fromDoc(h)
		sr.EmbeddingScore = h.Score
		sr.SearchType = SearchEmbedding
		out = append(out, sr)
	}
	return out
}

func fromDoc(h search.Hit) domain.ScoredReview {
	d := h.Doc
	created := ""
	if !d.CreatedAt.IsZero() {
		created = d.CreatedAt.UTC().Format(repos.TimeLayout)
	}
	return domain.ScoredReview{
		Review: domain.Review{
			ID:           h.ID,
			Content:      d.ReviewText,
			Rating:       d.Rating,
			ProductNo:    d.ProductNo,
			MemberID:     d.MemberID,
			HelpfulCount: d.HelpfulCount,
			CreatedAt:    created,
		},
		ProductName: d.ProductName,
	}
}

// KeywordScore is the local stand-in for BM25: each query term found in the
// review text counts 3, in the product name 2, in the brand 1, and the whole
// query appearing verbatim in the text adds 2.
func KeywordScore(query, text, productName, brand string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	text, productName, brand = strings.ToLower(text), strings.ToLower(productName), strings.ToLower(brand)
	var score float64
	for _, t := range strings.Fields(q) {
		if strings.Contains(text, t) {
			score += 3
		}
		if strings.Contains(productName, t) {
			score += 2
		}
		if strings.Contains(brand, t) {
			score++
		}
	}
	if strings.Contains(text, q) {
		score += 2
	}
	return score
}

// MergeHybrid joins the two legs by review id:
// final = keyword*(1-w) + embedding*w. Reviews found by both legs are
// "hybrid". Output order is keyword hits first, then vector-only hits.
func MergeHybrid(kw, emb []domain.ScoredReview, w float64) []domain.ScoredReview {
	out := make([]domain.ScoredReview, 0, len(kw)+len(emb))
	index := make(map[string]int, len(kw)+len(emb))

	for _, r := range kw {
		if _, dup := index[r.ID]; dup || r.ID == "" {
			continue
		}
		r.EmbeddingScore = 0
		r.FinalScore = r.KeywordScore * (1 - w)
		r.SearchType = SearchKeyword
		index[r.ID] = len(out)
		out = append(out, r)
	}
	for _, r := range emb {
		if r.ID == "" {
			continue
		}
		if i, ok := index[r.ID]; ok {
			out[i].FinalScore += r.EmbeddingScore * w
			out[i].EmbeddingScore = r.EmbeddingScore
			out[i].SearchType = SearchHybrid
			continue
		}
		r.KeywordScore = 0
		r.FinalScore = r.EmbeddingScore * w
		r.SearchType = SearchEmbedding
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// compareScored orders by score, then rating, then helpful votes, all
// descending.
func compareScored(score func(domain.ScoredReview) float64) func(a, b domain.ScoredReview) int {
	return func(a, b domain.ScoredReview) int {
		switch {
		case score(a) != score(b):
			if score(a) > score(b) {
				return -1
			}
			return 1
		case a.Rating != b.Rating:
			if a.Rating > b.Rating {
				return -1
			}
			return 1
		default:
			return b.HelpfulCount - a.HelpfulCount
		}
	}
}

// RankReviews sorts merged reviews and keeps the best size, numbering them
// from 1. Full ties keep merge order.
func RankReviews(merged []domain.ScoredReview, size int) []domain.ScoredReview {
	ranked := slices.Clone(merged)
	slices.SortStableFunc(ranked, compareScored(func(r domain.ScoredReview) float64 { return r.FinalScore }))
	if size >= 0 && len(ranked) > size {
		ranked = ranked[:size]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].FinalScore = round(ranked[i].FinalScore, 4)
	}
	return ranked
}

// ProductScore is one product's share of a review search.
type ProductScore struct {
	ProductNo     string
	TotalScore    float64
	ReviewCount   int
	AverageRating float64
}

// AggregateProducts sums review scores per product, counting only reviews
// rated at least minRating, and orders products by total score then average
// rating.
func AggregateProducts(reviews []domain.ScoredReview, minRating float64) []ProductScore {
	var out []ProductScore
	index := map[string]int{}
	for _, r := range reviews {
		if r.ProductNo == "" || r.Rating < minRating {
			continue
		}
		i, ok := index[r.ProductNo]
		if !ok {
			i = len(out)
			index[r.ProductNo] = i
			out = append(out, ProductScore{ProductNo: r.ProductNo})
		}
		ps := &out[i]
		ps.TotalScore += r.FinalScore
		ps.ReviewCount++
		ps.AverageRating += (r.Rating - ps.AverageRating) / float64(ps.ReviewCount)
	}
	slices.SortStableFunc(out, func(a, b ProductScore) int {
		switch {
		case a.TotalScore > b.TotalScore:
			return -1
		case a.TotalScore < b.TotalScore:
			return 1
		case a.AverageRating > b.AverageRating:
			return -1
		case a.AverageRating < b.AverageRating:
			return 1
		}
		return 0
	})
	return out
}

// SearchProductsByReviews recommends products whose reviews match query best.
// It ranks the top 50 reviews, groups them by product, then pages products.
func (s *ReviewService) SearchProductsByReviews(ctx context.Context, query string, page, size int, minRating, w float64) (domain.ProductList, error) {
	empty := domain.ProductList{Items: []domain.Product{}, Page: page, Size: size}
	res, err := s.SearchHybrid(ctx, query, 1, 50, w)
	if err != nil {
		return empty, err
	}
	scores := AggregateProducts(res.Reviews, minRating)
	if len(scores) == 0 {
		return empty, nil
	}

	pageScores := listing.Slice(scores, page, size)
	nos := make([]string, 0, len(pageScores))
	for _, ps := range pageScores {
		nos = append(nos, ps.ProductNo)
	}
	products, err := s.Prods.ByProductNos(nos)
	if err != nil {
		return empty, err
	}
	byNo := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byNo[p.ProductNo] = p
	}

	items := make([]domain.Product, 0, len(pageScores))
	for _, ps := range pageScores {
		p, ok := byNo[ps.ProductNo]
		if !ok {
			continue
		}
		score := round(ps.TotalScore, 2)
		p.ReviewBasedScore = &score
		p.MatchingReviews = ps.ReviewCount
		items = append(items, p)
	}
	return domain.ProductList{
		Items:      items,
		Total:      len(scores),
		Page:       page,
		Size:       size,
		TotalPages: listing.TotalPages(len(scores), size),
	}, nil
}

// ReviewStats summarizes the review corpus and how it is searched.
type ReviewStats struct {
	TotalReviews   int      `json:"total_reviews"`
	IndexedReviews int      `json:"indexed_reviews"`
	AverageRating  float64  `json:"average_rating"`
	SearchMethods  []string `json:"search_methods"`
	Index          string   `json:"index"`
}

func (s *ReviewService) Stats(ctx context.Context) (ReviewStats, error) {
	t, err := s.Reviews.Totals()
	if err != nil {
		return ReviewStats{}, err
	}
	st := ReviewStats{
		TotalReviews:  t.Total,
		AverageRating: round(t.AverageRating, 2),
		SearchMethods: []string{SearchKeyword},
		Index:         s.Search.Index(),
	}
	if s.vectorEnabled() {
		st.SearchMethods = append(st.SearchMethods, SearchEmbedding, SearchHybrid)
	}
	if s.Search.Enabled() {
		if n, err := s.Search.Count(ctx); err == nil {
			st.IndexedReviews = n
		} else {
			applog.Error(nil, "review.stats.count.fail", err, nil)
		}
	}
	return st, nil
}

// IndexAll pushes every review into the search index and returns how many
// documents were indexed.
func (s *ReviewService) IndexAll(ctx context.Context, batch int) (int, error) {
	if !s.Search.Enabled() {
		return 0, search.ErrDisabled
	}
	dims := 0
	if s.Embedder != nil {
		if vec, err := s.Embedder.Embed(ctx, "dimension probe"); err == nil {
			dims = len(vec)
		}
	}
	if err := s.Search.EnsureIndex(ctx, dims); err != nil {
		return 0, err
	}
	total := 0
	err := s.Reviews.All(batch, func(rows []repos.ReviewRow) error {
		docs := make([]search.Doc, 0, len(rows))
		for _, r := range rows {
			d := search.Doc{
				ReviewID:     r.ID,
				ReviewText:   r.Content,
				Rating:       r.Rating,
				HelpfulCount: r.HelpfulCount,
				ProductNo:    r.ProductNo,
				ProductName:  r.ProductName,
				ProductBrand: r.ProductBrand,
				MemberID:     r.MemberID,
			}
			if t, ok := parseTimestamp(r.CreatedAt); ok {
				d.CreatedAt = t
			}
			if s.Embedder != nil {
				if vec, err := s.Embedder.Embed(ctx, r.Content); err == nil {
					d.Embedding = vec
				}
			}
			docs = append(docs, d)
		}
		n, err := s.Search.BulkIndex(ctx, docs)
		total += n
		return err
	})
	return total, err
}
