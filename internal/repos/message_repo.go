package repos

import (
	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type MessageRepo struct{ db *sqlx.DB }

func NewMessageRepo(db *sqlx.DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) Insert(m *domain.Message) error {
	_, err := r.db.Exec(`
		INSERT INTO messages(message_id, sender_id, receiver_id, item_id, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.MessageID, m.SenderID, m.ReceiverID, m.ItemID, m.Content, m.CreatedAt)
	return err
}

// Conversation returns both directions of a two-party thread, oldest first.
func (r *MessageRepo) Conversation(userID, partnerID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.Select(&out, `
	  SELECT message_id, sender_id, receiver_id, item_id, content, created_at
	  FROM messages
	  WHERE (sender_id=? AND receiver_id=?) OR (sender_id=? AND receiver_id=?)
	  ORDER BY created_at, message_id
	  LIMIT ?
	`, userID, partnerID, partnerID, userID, limit)
	return out, err
}

// InvolvingUser returns every message the user sent or received, newest
// first. The service folds these into one entry per conversation partner.
func (r *MessageRepo) InvolvingUser(userID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.Select(&out, `
	  SELECT message_id, sender_id, receiver_id, item_id, content, created_at
	  FROM messages
	  WHERE sender_id=? OR receiver_id=?
	  ORDER BY created_at DESC, message_id DESC
	  LIMIT ?
	`, userID, userID, limit)
	return out, err
}
