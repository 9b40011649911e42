package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemCols = `item_id, user_id, title, description, image, category, subcategory,
  bottom_category, is_available, boost_score, pin_count, created_at`

func (r *ItemRepo) Create(it *domain.Item) error {
	_, err := r.db.Exec(`
		INSERT INTO items(item_id, user_id, title, description, image, category,
		  subcategory, bottom_category, is_available, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
	`, it.ItemID, it.UserID, it.Title, it.Description, it.Image, it.Category,
		it.Subcategory, it.BottomCategory, it.CreatedAt)
	return err
}

func (r *ItemRepo) Get(id string) (*domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, `SELECT `+itemCols+` FROM items WHERE item_id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListAvailable returns available items ordered by boost score, newest first
// among equals. Category and owner filters are optional.
func (r *ItemRepo) ListAvailable(category, ownerID string, limit int) ([]domain.Item, error) {
	where := `is_available = 1`
	args := []any{}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	if ownerID != "" {
		where += ` AND user_id = ?`
		args = append(args, ownerID)
	}
	args = append(args, limit)

	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+`
	  FROM items
	  WHERE `+where+`
	  ORDER BY boost_score DESC, created_at DESC
	  LIMIT ?
	`, args...)
	return out, err
}

// ListByOwner returns all of a user's items regardless of availability.
func (r *ItemRepo) ListByOwner(ownerID string, limit int) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+`
	  FROM items
	  WHERE user_id = ?
	  ORDER BY created_at DESC
	  LIMIT ?
	`, ownerID, limit)
	return out, err
}

// Delete removes an item; pins and portfolio rows cascade via foreign keys.
func (r *ItemRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM items WHERE item_id=?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	return nil
}

// ---------- admin ----------

func (r *ItemRepo) ListAdmin(search string, limit int) ([]domain.Item, error) {
	where := `1=1`
	args := []any{}
	if search != "" {
		where += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`
		q := "%" + search + "%"
		args = append(args, q, q)
	}
	args = append(args, limit)
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+` FROM items WHERE `+where+`
	  ORDER BY created_at DESC LIMIT ?
	`, args...)
	return out, err
}

// BulkDelete removes the given items and reports how many existed.
func (r *ItemRepo) BulkDelete(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM items WHERE item_id IN (?)`, ids)
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
