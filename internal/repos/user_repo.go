package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `user_id, email, name, username, picture, password_hash, role,
  trade_points, rating, rating_count, suspended_until, suspension_reason, created_at`

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE user_id=?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(user_id, email, name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.UserID, u.Email, u.Name, u.Hash, u.Role, u.CreatedAt)
	return err
}

// UpdateProfile sets username and/or picture. A nil field is left untouched.
func (r *UserRepo) UpdateProfile(userID string, username, picture *string) error {
	if username != nil {
		var taken int
		if err := r.DB.Get(&taken,
			`SELECT COUNT(*) FROM users WHERE username=? AND user_id != ?`, *username, userID); err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("%w: username already taken", domain.ErrConflict)
		}
		if _, err := r.DB.Exec(`UPDATE users SET username=? WHERE user_id=?`, *username, userID); err != nil {
			return err
		}
	}
	if picture != nil {
		if _, err := r.DB.Exec(`UPDATE users SET picture=? WHERE user_id=?`, *picture, userID); err != nil {
			return err
		}
	}
	return nil
}

// ---------- sessions ----------

func (r *UserRepo) CreateSession(token, userID string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
		INSERT INTO sessions(token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, token, userID, time.Now().UTC().Format(time.RFC3339), expiresAt.UTC().Format(time.RFC3339))
	return err
}

type sessionRow struct {
	UserID    string `db:"user_id"`
	ExpiresAt string `db:"expires_at"`
}

// SessionUser resolves a session token to its user, rejecting expired tokens.
func (r *UserRepo) SessionUser(token string) (*domain.User, error) {
	var s sessionRow
	err := r.DB.Get(&s, `SELECT user_id, expires_at FROM sessions WHERE token=?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: invalid session", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	exp, err := time.Parse(time.RFC3339, s.ExpiresAt)
	if err != nil || exp.Before(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	}
	return r.ByID(s.UserID)
}

func (r *UserRepo) DeleteSession(token string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE token=?`, token)
	return err
}

// ---------- suspension ----------

func (r *UserRepo) SetSuspension(userID string, until *time.Time, reason string) error {
	if until == nil {
		_, err := r.DB.Exec(`UPDATE users SET suspended_until=NULL, suspension_reason=NULL WHERE user_id=?`, userID)
		return err
	}
	_, err := r.DB.Exec(`UPDATE users SET suspended_until=?, suspension_reason=? WHERE user_id=?`,
		until.UTC().Format(time.RFC3339), reason, userID)
	return err
}

// ClearExpiredSuspension lifts a suspension whose end date has passed.
// Called lazily from authenticated lookups; there is no background sweep.
func (r *UserRepo) ClearExpiredSuspension(userID string) error {
	_, err := r.DB.Exec(`
		UPDATE users SET suspended_until=NULL, suspension_reason=NULL
		WHERE user_id=? AND suspended_until IS NOT NULL AND suspended_until <= ?
	`, userID, time.Now().UTC().Format(time.RFC3339))
	return err
}

// ---------- rating aggregation ----------

// ApplyRating folds one rating into the user's running average in a single
// statement, so concurrent raters cannot interleave a read-modify-write.
func ApplyRating(tx *sqlx.Tx, ratedUserID string, rating int) error {
	_, err := tx.Exec(`
		UPDATE users SET
		  rating = ROUND((COALESCE(rating,0) * rating_count + ?) * 1.0 / (rating_count + 1), 1),
		  rating_count = rating_count + 1
		WHERE user_id=?
	`, rating, ratedUserID)
	return err
}

// ---------- admin ----------

func (r *UserRepo) ListAdmin(search string, suspendedOnly bool) ([]domain.User, error) {
	where := `1=1`
	args := []any{}
	if search != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(username,'')) LIKE ?)`
		q := "%" + search + "%"
		args = append(args, q, q, q)
	}
	if suspendedOnly {
		where += ` AND suspended_until IS NOT NULL`
	}
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users WHERE `+where+` ORDER BY created_at DESC`, args...)
	return out, err
}

// DeleteCascade removes a user and everything keyed to them: sessions, items
// (pins and portfolio rows cascade with the items), own pins, portfolio,
// messages and open trades.
func (r *UserRepo) DeleteCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM trades WHERE is_completed=0 AND (owner_id=? OR trader_id=?)`, userID, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM messages WHERE sender_id=? OR receiver_id=?`, userID, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM items WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE user_id=?`, userID); err != nil {
		return err
	}

	return tx.Commit()
}
