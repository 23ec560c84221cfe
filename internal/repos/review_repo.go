package repos

import (
	"strings"

	"commerce/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewRow is a review joined with its author and product, the shape both
// the listing endpoints and the search indexer need.
type ReviewRow struct {
	domain.Review
	MemberName   string `db:"member_name"`
	MemberEmail  string `db:"member_email"`
	ProductName  string `db:"product_name"`
	ProductBrand string `db:"product_brand"`
}

// WithMember returns the review with its Member filled in when known.
func (r ReviewRow) WithMember() domain.Review {
	rv := r.Review
	if rv.MemberID != "" {
		rv.Member = &domain.Member{MemberID: rv.MemberID, Name: r.MemberName, Email: r.MemberEmail}
	}
	return rv
}

const reviewSelect = `
  SELECT
    r.id, r.content, r.rating, r.product_no, COALESCE(r.member_id,'') AS member_id,
    COALESCE(r.created_at,'') AS created_at, COALESCE(r.updated_at,'') AS updated_at,
    r.helpful_count, r.sentiment_score,
    COALESCE(m.member_name,'') AS member_name, COALESCE(m.member_email,'') AS member_email,
    COALESCE(p.name,'') AS product_name, COALESCE(p.brand,'') AS product_brand
  FROM reviews r
  LEFT JOIN members m ON m.member_id = r.member_id
  LEFT JOIN products p ON p.product_no = r.product_no`

// ListByProduct pages a product's reviews, newest first.
func (r *ReviewRepo) ListByProduct(productNo string, limit, offset int) ([]ReviewRow, error) {
	out := []ReviewRow{}
	err := r.db.Select(&out, reviewSelect+`
  WHERE r.product_no = ?
  ORDER BY r.created_at DESC, r.id ASC
  LIMIT ? OFFSET ?`, productNo, limit, offset)
	return out, err
}

func (r *ReviewRepo) CountByProduct(productNo string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM reviews WHERE product_no = ?`, productNo)
	return n, err
}

// MatchAny returns up to limit reviews whose text, product name or brand
// contains any of terms, best matches first. Each term weighs 3 in the text,
// 2 in the product name and 1 in the brand. It backs keyword search when no
// search cluster is configured.
func (r *ReviewRepo) MatchAny(terms []string, limit int) ([]ReviewRow, error) {
	out := []ReviewRow{}
	if len(terms) == 0 {
		return out, nil
	}
	var ors, weights []string
	var where, order []any
	for _, t := range terms {
		like := "%" + strings.ToLower(t) + "%"
		ors = append(ors, `LOWER(r.content) LIKE ? OR LOWER(p.name) LIKE ? OR LOWER(p.brand) LIKE ?`)
		weights = append(weights, `(CASE WHEN LOWER(r.content) LIKE ? THEN 3 ELSE 0 END)
    + (CASE WHEN LOWER(p.name) LIKE ? THEN 2 ELSE 0 END)
    + (CASE WHEN LOWER(p.brand) LIKE ? THEN 1 ELSE 0 END)`)
		where = append(where, like, like, like)
		order = append(order, like, like, like)
	}
	args := append(append(where, order...), limit)
	err := r.db.Select(&out, reviewSelect+`
  WHERE `+strings.Join(ors, " OR ")+`
  ORDER BY `+strings.Join(weights, " + ")+` DESC, r.rating DESC, r.helpful_count DESC, r.id ASC
  LIMIT ?`, args...)
	return out, err
}

// All streams every review in pages of batch, for the search indexer.
func (r *ReviewRepo) All(batch int, fn func([]ReviewRow) error) error {
	for offset := 0; ; offset += batch {
		rows := []ReviewRow{}
		if err := r.db.Select(&rows, reviewSelect+`
  ORDER BY r.id LIMIT ? OFFSET ?`, batch, offset); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := fn(rows); err != nil {
			return err
		}
		if len(rows) < batch {
			return nil
		}
	}
}

// RatingPoint is the slice of a review the per-product statistics need.
type RatingPoint struct {
	ProductNo string  `db:"product_no"`
	Rating    float64 `db:"rating"`
	CreatedAt string  `db:"created_at"`
}

// RatingPoints returns rating/date pairs for the given products, or for every
// product when nos is empty.
func (r *ReviewRepo) RatingPoints(nos []string) ([]RatingPoint, error) {
	out := []RatingPoint{}
	base := `SELECT product_no, rating, COALESCE(created_at,'') AS created_at FROM reviews`
	if len(nos) == 0 {
		err := r.db.Select(&out, base+` ORDER BY product_no, created_at`)
		return out, err
	}
	q, args, err := sqlx.In(base+` WHERE product_no IN (?) ORDER BY product_no, created_at`, nos)
	if err != nil {
		return nil, err
	}
	err = r.db.Select(&out, r.db.Rebind(q), args...)
	return out, err
}

type ReviewTotals struct {
	Total         int     `db:"total"`
	AverageRating float64 `db:"average_rating"`
}

func (r *ReviewRepo) Totals() (ReviewTotals, error) {
	var t ReviewTotals
	err := r.db.Get(&t, `SELECT COUNT(*) AS total, COALESCE(AVG(rating),0) AS average_rating FROM reviews`)
	return t, err
}

// SaveStatistics replaces the stored rollups for the given products.
func (r *ReviewRepo) SaveStatistics(stats []domain.ProductStatistics) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	ts := now()
	for _, s := range stats {
		if _, err := tx.Exec(`DELETE FROM product_statistics WHERE product_no = ?`, s.ProductNo); err != nil {
			return err
		}
		if _, err := tx.Exec(`
  INSERT INTO product_statistics(product_no,total_reviews,average_rating,rating_distribution,last_review_date,review_velocity,updated_at)
  VALUES(?,?,?,?,?,?,?)`,
			s.ProductNo, s.TotalReviews, s.AverageRating, s.RatingDistribution, s.LastReviewDate, s.ReviewVelocity, ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// StoredStatistics reads rollups written by SaveStatistics.
func (r *ReviewRepo) StoredStatistics(nos []string) ([]domain.ProductStatistics, error) {
	out := []domain.ProductStatistics{}
	if len(nos) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
  SELECT product_no, total_reviews, average_rating, rating_distribution, last_review_date, review_velocity
  FROM product_statistics WHERE product_no IN (?)`, nos)
	if err != nil {
		return nil, err
	}
	err = r.db.Select(&out, r.db.Rebind(q), args...)
	return out, err
}
