package repos

import (
	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type PortfolioRepo struct{ db *sqlx.DB }

func NewPortfolioRepo(db *sqlx.DB) *PortfolioRepo { return &PortfolioRepo{db: db} }

// Replace swaps the user's portfolio for the given item list in one
// transaction. Ids without a matching item are dropped: clients resubmit
// stale lists after deletions. The stored position keeps the user's chosen
// order, but display order is boost-driven (see Items).
func (r *PortfolioRepo) Replace(userID string, itemIDs []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM portfolio_items WHERE user_id=?`, userID); err != nil {
		return err
	}
	for i, id := range itemIDs {
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO portfolio_items(user_id, item_id, position)
			SELECT ?, item_id, ? FROM items WHERE item_id = ?
		`, userID, i, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ItemIDs returns the portfolio in the user's stored order.
func (r *PortfolioRepo) ItemIDs(userID string) ([]string, error) {
	var out []string
	err := r.db.Select(&out, `
	  SELECT item_id FROM portfolio_items WHERE user_id=? ORDER BY position
	`, userID)
	return out, err
}

// Items joins the portfolio against items, dropping ids that no longer exist,
// sorted strictly by descending boost score.
func (r *PortfolioRepo) Items(userID string) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT i.item_id, i.user_id, i.title, i.description, i.image, i.category,
	         i.subcategory, i.bottom_category, i.is_available, i.boost_score,
	         i.pin_count, i.created_at
	  FROM portfolio_items pi
	  JOIN items i ON i.item_id = pi.item_id
	  WHERE pi.user_id = ?
	  ORDER BY i.boost_score DESC, i.created_at DESC
	`, userID)
	return out, err
}
