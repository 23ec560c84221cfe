package repos

import (
	"commerce/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns categories roots first, then by name.
func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
  SELECT
    id,
    name,
    code,
    parent_id,
    depth,
    COALESCE(created_at,'') AS created_at,
    COALESCE(updated_at,'') AS updated_at
  FROM categories
  ORDER BY depth, name
`)
	return out, err
}

func (r *CategoryRepo) Get(id int64) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `
  SELECT id, name, code, parent_id, depth,
    COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at
  FROM categories WHERE id = ?`, id)
	return c, err
}

// IDByName resolves a category name, as used by the CSV importer.
func (r *CategoryRepo) IDByName(name string) (int64, error) {
	var id int64
	err := r.db.Get(&id, `SELECT id FROM categories WHERE name = ?`, name)
	return id, err
}

func (r *CategoryRepo) Create(name, code string, parentID *int64) (int64, error) {
	depth := 0
	if parentID != nil {
		depth = 1
	}
	res, err := r.db.Exec(`INSERT INTO categories(name,code,parent_id,depth,created_at) VALUES(?,?,?,?,?)`,
		name, code, parentID, depth, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
