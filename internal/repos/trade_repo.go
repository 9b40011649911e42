package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type TradeRepo struct{ db *sqlx.DB }

func NewTradeRepo(db *sqlx.DB) *TradeRepo { return &TradeRepo{db: db} }

const tradeCols = `trade_id, item_id, owner_id, trader_id, owner_confirmed,
  trader_confirmed, is_completed, owner_rating, trader_rating, created_at, completed_at`

func (r *TradeRepo) Get(id string) (*domain.Trade, error) {
	var t domain.Trade
	err := r.db.Get(&t, `SELECT `+tradeCols+` FROM trades WHERE trade_id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: trade %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// OpenByItemTrader returns the open (non-completed) trade for the pair, if any.
func (r *TradeRepo) OpenByItemTrader(itemID, traderID string) (*domain.Trade, error) {
	var t domain.Trade
	err := r.db.Get(&t, `
	  SELECT `+tradeCols+` FROM trades
	  WHERE item_id=? AND trader_id=? AND is_completed=0
	`, itemID, traderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TradeRepo) Create(t *domain.Trade) error {
	_, err := r.db.Exec(`
		INSERT INTO trades(trade_id, item_id, owner_id, trader_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.TradeID, t.ItemID, t.OwnerID, t.TraderID, t.CreatedAt)
	return err
}

func (r *TradeRepo) ListForUser(userID string, limit int) ([]domain.Trade, error) {
	var out []domain.Trade
	err := r.db.Select(&out, `
	  SELECT `+tradeCols+` FROM trades
	  WHERE owner_id=? OR trader_id=?
	  ORDER BY created_at DESC
	  LIMIT ?
	`, userID, userID, limit)
	return out, err
}

// Confirm sets the party's confirmation flag and, when both flags hold,
// settles the trade: completion stamp, item made unavailable, +1 trade point
// to each party. Settlement is guarded by a compare-and-set on is_completed
// inside one transaction so its side effects fire exactly once even under
// concurrent confirms. Returns the trade as it stands after the call.
func (r *TradeRepo) Confirm(tradeID, flagColumn, itemID, ownerID, traderID string) (*domain.Trade, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if flagColumn != "owner_confirmed" && flagColumn != "trader_confirmed" {
		return nil, fmt.Errorf("bad confirmation column %q", flagColumn)
	}
	// no-op when already set: retries by the same party must not error
	if _, err := tx.Exec(`UPDATE trades SET `+flagColumn+`=1 WHERE trade_id=?`, tradeID); err != nil {
		return nil, err
	}

	res, err := tx.Exec(`
		UPDATE trades SET is_completed=1, completed_at=?
		WHERE trade_id=? AND owner_confirmed=1 AND trader_confirmed=1 AND is_completed=0
	`, time.Now().UTC().Format(time.RFC3339), tradeID)
	if err != nil {
		return nil, err
	}
	if settled, _ := res.RowsAffected(); settled == 1 {
		if _, err := tx.Exec(`UPDATE items SET is_available=0 WHERE item_id=?`, itemID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`UPDATE users SET trade_points=trade_points+1 WHERE user_id IN (?, ?)`,
			ownerID, traderID); err != nil {
			return nil, err
		}
	}

	var t domain.Trade
	if err := tx.Get(&t, `SELECT `+tradeCols+` FROM trades WHERE trade_id=?`, tradeID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Rate claims the party's rating slot and folds the rating into the rated
// user's running average, atomically. A second attempt by the same party
// finds the slot taken and fails without touching the average.
func (r *TradeRepo) Rate(tradeID, ratingColumn, ratedUserID string, rating int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if ratingColumn != "owner_rating" && ratingColumn != "trader_rating" {
		return fmt.Errorf("bad rating column %q", ratingColumn)
	}
	res, err := tx.Exec(`
		UPDATE trades SET `+ratingColumn+`=?
		WHERE trade_id=? AND `+ratingColumn+` IS NULL AND is_completed=1
	`, rating, tradeID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: already rated", domain.ErrInvalidState)
	}

	if err := ApplyRating(tx, ratedUserID, rating); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------- admin ----------

type TradeCounts struct {
	Total     int `db:"total"`
	Completed int `db:"completed"`
}

func (r *TradeRepo) Counts() (TradeCounts, error) {
	var c TradeCounts
	err := r.db.Get(&c, `SELECT COUNT(*) AS total, COALESCE(SUM(is_completed),0) AS completed FROM trades`)
	return c, err
}
