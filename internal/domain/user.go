package domain

type User struct {
	UserID           string   `db:"user_id" json:"user_id"`
	Email            string   `db:"email" json:"email"`
	Name             string   `db:"name" json:"name"`
	Username         *string  `db:"username" json:"username,omitempty"`
	Picture          *string  `db:"picture" json:"picture,omitempty"`
	Hash             string   `db:"password_hash" json:"-"`
	Role             string   `db:"role" json:"role"` // USER | ADMIN
	TradePoints      int      `db:"trade_points" json:"trade_points"`
	Rating           *float64 `db:"rating" json:"rating,omitempty"`
	RatingCount      int      `db:"rating_count" json:"rating_count"`
	SuspendedUntil   *string  `db:"suspended_until" json:"suspended_until,omitempty"`
	SuspensionReason *string  `db:"suspension_reason" json:"suspension_reason,omitempty"`
	CreatedAt        string   `db:"created_at" json:"created_at"`
}

func (u *User) IsAdmin() bool { return u.Role == "ADMIN" }
