package services

import (
	"time"

	"swapflow/internal/domain"
	"swapflow/internal/repos"
)

type MessageService struct {
	Messages *repos.MessageRepo
	Users    *repos.UserRepo
}

func NewMessageService(messages *repos.MessageRepo, users *repos.UserRepo) *MessageService {
	return &MessageService{Messages: messages, Users: users}
}

func (s *MessageService) Send(senderID, receiverID string, itemID *string, content string) (*domain.Message, error) {
	if _, err := s.Users.ByID(receiverID); err != nil {
		return nil, err
	}
	m := &domain.Message{
		MessageID:  domain.NewID("msg"),
		SenderID:   senderID,
		ReceiverID: receiverID,
		ItemID:     itemID,
		Content:    content,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Messages.Insert(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MessageService) Conversation(userID, partnerID string) ([]domain.Message, error) {
	return s.Messages.Conversation(userID, partnerID, 100)
}

type ConversationSummary struct {
	Partner         *domain.User `json:"partner"`
	LastMessage     string       `json:"last_message"`
	LastMessageTime string       `json:"last_message_time"`
	ItemID          *string      `json:"item_id,omitempty"`
}

// Conversations folds the user's message history into one entry per partner,
// keyed by the most recent message, newest conversations first.
func (s *MessageService) Conversations(userID string) ([]ConversationSummary, error) {
	msgs, err := s.Messages.InvolvingUser(userID, 500)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	out := []ConversationSummary{}
	for _, m := range msgs {
		partnerID := m.SenderID
		if partnerID == userID {
			partnerID = m.ReceiverID
		}
		if seen[partnerID] {
			continue
		}
		seen[partnerID] = true

		partner, err := s.Users.ByID(partnerID)
		if err != nil {
			// partner account deleted; skip the thread
			continue
		}
		out = append(out, ConversationSummary{
			Partner:         partner,
			LastMessage:     m.Content,
			LastMessageTime: m.CreatedAt,
			ItemID:          m.ItemID,
		})
	}
	return out, nil
}
