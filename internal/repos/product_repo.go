package repos

import (
	"database/sql"
	"encoding/json"
	"strings"

	"commerce/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    p.id, p.product_no, p.name, COALESCE(p.description,'') AS description, p.price, p.rating,
    p.review_count, p.image_url, p.category_id, COALESCE(c.name,'') AS category, p.brand,
    COALESCE(p.tags_json,'[]') AS tags_json, p.active, p.view_count, p.sales_count,
    COALESCE(p.created_at,'') AS created_at, COALESCE(p.updated_at,'') AS updated_at`

const productFrom = `
  FROM products p
  LEFT JOIN categories c ON c.id = p.category_id`

// sortColumns whitelists sort_by values; anything else sorts by created_at.
var sortColumns = map[string]string{
	"created_at":   "p.created_at",
	"price":        "p.price",
	"rating":       "p.rating",
	"review_count": "p.review_count",
	"name":         "p.name",
	"view_count":   "p.view_count",
	"sales_count":  "p.sales_count",
}

func productWhere(f domain.ProductSearch) (string, []any) {
	where := []string{"p.active = 1"}
	args := []any{}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		like := "%" + q + "%"
		where = append(where, `(LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(p.brand) LIKE ?)`)
		args = append(args, like, like, like)
	}
	if f.Category != "" {
		where = append(where, `c.name = ?`)
		args = append(args, f.Category)
	}
	if f.CategoryID > 0 {
		where = append(where, `(p.category_id = ? OR c.parent_id = ?)`)
		args = append(args, f.CategoryID, f.CategoryID)
	}
	if f.Brand != "" {
		where = append(where, `LOWER(p.brand) = LOWER(?)`)
		args = append(args, f.Brand)
	}
	if f.MinPrice != nil {
		where = append(where, `p.price >= ?`)
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, `p.price <= ?`)
		args = append(args, *f.MaxPrice)
	}
	if f.MinRating != nil {
		where = append(where, `p.rating >= ?`)
		args = append(args, *f.MinRating)
	}
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			where = append(where, `p.tags_json LIKE ?`)
			args = append(args, `%"`+t+`"%`)
		}
	}
	return strings.Join(where, " AND "), args
}

func productOrder(f domain.ProductSearch) string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "p.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir + ", p.id ASC"
}

func decodeTags(ps []domain.Product) {
	for i := range ps {
		ps[i].Tags = []string{}
		if ps[i].TagsJSON != "" {
			_ = json.Unmarshal([]byte(ps[i].TagsJSON), &ps[i].Tags)
		}
	}
}

func (r *ProductRepo) Search(f domain.ProductSearch, limit, offset int) ([]domain.Product, error) {
	where, args := productWhere(f)
	q := `SELECT` + productCols + productFrom + `
  WHERE ` + where + `
  ORDER BY ` + productOrder(f) + `
  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Product{}
	if err := r.db.Select(&out, q, args...); err != nil {
		return nil, err
	}
	decodeTags(out)
	return out, nil
}

func (r *ProductRepo) Count(f domain.ProductSearch) (int, error) {
	where, args := productWhere(f)
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*)`+productFrom+` WHERE `+where, args...)
	return n, err
}

// Get looks a product up by id or by product number.
func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+productFrom+`
  WHERE p.id = ? OR p.product_no = ?`, id, id)
	if err != nil {
		return p, err
	}
	ps := []domain.Product{p}
	decodeTags(ps)
	return ps[0], nil
}

// ByProductNos returns the active products among nos, in no particular order.
func (r *ProductRepo) ByProductNos(nos []string) ([]domain.Product, error) {
	out := []domain.Product{}
	if len(nos) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT`+productCols+productFrom+`
  WHERE p.active = 1 AND p.product_no IN (?)`, nos)
	if err != nil {
		return nil, err
	}
	if err := r.db.Select(&out, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	decodeTags(out)
	return out, nil
}

// Similar lists other active products of the same category, best rated first.
func (r *ProductRepo) Similar(p domain.Product, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT`+productCols+productFrom+`
  WHERE p.active = 1 AND p.category_id = ? AND p.id <> ?
  ORDER BY p.rating DESC, p.review_count DESC, p.id ASC
  LIMIT ?`, p.CategoryID, p.ID, limit)
	if err != nil {
		return nil, err
	}
	decodeTags(out)
	return out, nil
}

func (r *ProductRepo) Brands() ([]string, error) {
	out := []string{}
	err := r.db.Select(&out, `SELECT DISTINCT brand FROM products WHERE active = 1 AND brand <> '' ORDER BY brand`)
	return out, err
}

// ProductNos lists every product number, for batch jobs.
func (r *ProductRepo) ProductNos() ([]string, error) {
	out := []string{}
	err := r.db.Select(&out, `SELECT product_no FROM products ORDER BY product_no`)
	return out, err
}

func (r *ProductRepo) Stats() (domain.ProductStats, error) {
	var s domain.ProductStats
	err := r.db.Get(&s, `
  SELECT
    COUNT(*) AS total_products,
    (SELECT COUNT(*) FROM categories) AS total_categories,
    COUNT(DISTINCT CASE WHEN brand <> '' THEN brand END) AS total_brands,
    COALESCE(AVG(price), 0) AS average_price,
    COALESCE(AVG(CASE WHEN review_count > 0 THEN rating END), 0) AS average_rating,
    COALESCE(SUM(review_count), 0) AS total_reviews,
    COALESCE(SUM(sales_count), 0) AS total_sales,
    COALESCE(SUM(view_count), 0) AS total_views
  FROM products
  WHERE active = 1`)
	return s, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	tags, _ := json.Marshal(p.Tags)
	_, err := r.db.Exec(`
  INSERT INTO products(id,product_no,name,description,price,image_url,category_id,brand,tags_json,active,created_at)
  VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.ProductNo, p.Name, p.Description, p.Price, p.ImageURL, p.CategoryID, p.Brand, string(tags), p.Active, now())
	return err
}

// Update overwrites the editable columns. sql.ErrNoRows means no such product.
func (r *ProductRepo) Update(p domain.Product) error {
	tags, _ := json.Marshal(p.Tags)
	res, err := r.db.Exec(`
  UPDATE products SET
    product_no=?, name=?, description=?, price=?, image_url=?, category_id=?, brand=?, tags_json=?, active=?, updated_at=?
  WHERE id=?`,
		p.ProductNo, p.Name, p.Description, p.Price, p.ImageURL, p.CategoryID, p.Brand, string(tags), p.Active, now(), p.ID)
	return affected(res, err)
}

func (r *ProductRepo) Delete(id string) error {
	return affected(r.db.Exec(`DELETE FROM products WHERE id=?`, id))
}

func (r *ProductRepo) IncrementView(id string) error {
	_, err := r.db.Exec(`UPDATE products SET view_count = view_count + 1 WHERE id=?`, id)
	return err
}

// RollupRatings refreshes rating and review_count from the reviews table.
func (r *ProductRepo) RollupRatings() error {
	_, err := r.db.Exec(rollupProductRatings)
	return err
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
