package repos

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"swapflow/internal/boost"
	"swapflow/internal/domain"
)

type PinRepo struct{ db *sqlx.DB }

func NewPinRepo(db *sqlx.DB) *PinRepo { return &PinRepo{db: db} }

// Add records a pin and recomputes the item's boost score in the same
// transaction, so no listing can read the pin without the new score.
// Returns the recomputed score.
func (r *PinRepo) Add(userID, itemID string) (float64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.Get(&n, `SELECT COUNT(*) FROM items WHERE item_id=?`, itemID); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}

	res, err := tx.Exec(`
		INSERT OR IGNORE INTO pins(user_id, item_id, created_at)
		VALUES (?, ?, ?)
	`, userID, itemID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return 0, fmt.Errorf("%w: already pinned", domain.ErrConflict)
	}

	score, err := recomputeBoost(tx, itemID)
	if err != nil {
		return 0, err
	}
	return score, tx.Commit()
}

// Remove deletes a pin and recomputes the score in the same transaction.
func (r *PinRepo) Remove(userID, itemID string) (float64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`DELETE FROM pins WHERE user_id=? AND item_id=?`, userID, itemID)
	if err != nil {
		return 0, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return 0, fmt.Errorf("%w: pin", domain.ErrNotFound)
	}

	score, err := recomputeBoost(tx, itemID)
	if err != nil {
		return 0, err
	}
	return score, tx.Commit()
}

func (r *PinRepo) IsPinned(userID, itemID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM pins WHERE user_id=? AND item_id=?`, userID, itemID)
	return n > 0, err
}

// Timestamps returns the created_at of every pin on the item.
func (r *PinRepo) Timestamps(itemID string) ([]time.Time, error) {
	var raw []string
	if err := r.db.Select(&raw, `SELECT created_at FROM pins WHERE item_id=?`, itemID); err != nil {
		return nil, err
	}
	return parsePinTimes(raw)
}

// recomputeBoost rewrites the item's cached boost_score and pin_count from
// the full pin history. O(pins on item); pin counts per item are small.
func recomputeBoost(tx *sqlx.Tx, itemID string) (float64, error) {
	var raw []string
	if err := tx.Select(&raw, `SELECT created_at FROM pins WHERE item_id=?`, itemID); err != nil {
		return 0, err
	}
	times, err := parsePinTimes(raw)
	if err != nil {
		return 0, err
	}
	score := boost.Score(times, time.Now())
	res, err := tx.Exec(`UPDATE items SET boost_score=?, pin_count=? WHERE item_id=?`, score, len(times), itemID)
	if err != nil {
		return 0, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return 0, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}
	return score, nil
}

func parsePinTimes(raw []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			// naive timestamps are treated as UTC
			t, err = time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, t)
	}
	return out, nil
}
