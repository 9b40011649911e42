package repos

import (
	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns main categories, most clicked first.
func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT name, level, click_count
	  FROM categories
	  WHERE level = 'main'
	  ORDER BY click_count DESC, name
	`)
	return out, err
}

// ListAll returns every category at every level (for admin grouping).
func (r *CategoryRepo) ListAll() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT name, level, click_count
	  FROM categories
	  ORDER BY level, click_count DESC, name
	`)
	return out, err
}

// Ensure upserts a category row without touching its click count.
func (r *CategoryRepo) Ensure(name, level string) error {
	_, err := r.db.Exec(`
	  INSERT INTO categories(name, level, click_count)
	  VALUES (?, ?, 0)
	  ON CONFLICT(name, level) DO NOTHING
	`, name, level)
	return err
}

// IncrementClick bumps a main category's popularity counter.
// Callers treat failures as best-effort.
func (r *CategoryRepo) IncrementClick(name string) error {
	_, err := r.db.Exec(`
	  INSERT INTO categories(name, level, click_count)
	  VALUES (?, 'main', 1)
	  ON CONFLICT(name, level) DO UPDATE SET click_count = click_count + 1
	`, name)
	return err
}

func (r *CategoryRepo) Delete(name string) (int, error) {
	res, err := r.db.Exec(`DELETE FROM categories WHERE name=?`, name)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *CategoryRepo) BulkDelete(names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM categories WHERE name IN (?)`, names)
	if err != nil {
		return 0, err
	}
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
