package repos

import (
	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type SettingsRepo struct{ db *sqlx.DB }

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get() (domain.Settings, error) {
	var s domain.Settings
	err := r.db.Get(&s, `SELECT max_portfolio_items FROM settings WHERE id=1`)
	return s, err
}

func (r *SettingsRepo) SetMaxPortfolioItems(n int) error {
	_, err := r.db.Exec(`
		INSERT INTO settings(id, max_portfolio_items) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET max_portfolio_items = excluded.max_portfolio_items
	`, n)
	return err
}
