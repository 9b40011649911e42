package services

import (
	"fmt"
	"time"

	"swapflow/internal/domain"
	"swapflow/internal/repos"
	"swapflow/internal/validate"
)

type TradeService struct {
	Trades *repos.TradeRepo
	Items  *repos.ItemRepo
}

func NewTradeService(trades *repos.TradeRepo, items *repos.ItemRepo) *TradeService {
	return &TradeService{Trades: trades, Items: items}
}

// Create opens a trade for an available item. Re-requesting while a trade for
// the same (item, requester) pair is still open returns that trade unchanged.
func (s *TradeService) Create(requesterID, itemID string) (*domain.Trade, error) {
	it, err := s.Items.Get(itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsAvailable {
		return nil, fmt.Errorf("%w: item not available", domain.ErrNotFound)
	}
	if it.UserID == requesterID {
		return nil, fmt.Errorf("%w: cannot trade with yourself", domain.ErrConflict)
	}

	if existing, err := s.Trades.OpenByItemTrader(itemID, requesterID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	t := &domain.Trade{
		TradeID:   domain.NewID("trade"),
		ItemID:    itemID,
		OwnerID:   it.UserID,
		TraderID:  requesterID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Trades.Create(t); err != nil {
		// lost a race against an identical create; hand back the winner
		if existing, gerr := s.Trades.OpenByItemTrader(itemID, requesterID); gerr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return t, nil
}

// Get returns a trade, visible to its participants only.
func (s *TradeService) Get(actorID, tradeID string) (*domain.Trade, error) {
	t, err := s.Trades.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != actorID && t.TraderID != actorID {
		return nil, fmt.Errorf("%w: not a trade participant", domain.ErrUnauthorized)
	}
	return t, nil
}

func (s *TradeService) ListForUser(userID string) ([]domain.Trade, error) {
	return s.Trades.ListForUser(userID, 50)
}

// Confirm records the actor's confirmation. Settlement (item goes
// unavailable, each party gets a trade point) fires exactly once, at the
// confirm that makes both flags true. Re-confirming an already confirmed
// flag is a harmless no-op; confirming a completed trade is not.
func (s *TradeService) Confirm(actorID, tradeID string) (*domain.Trade, error) {
	t, err := s.Trades.Get(tradeID)
	if err != nil {
		return nil, err
	}
	if t.IsCompleted {
		return nil, fmt.Errorf("%w: trade already completed", domain.ErrInvalidState)
	}

	var flag string
	switch actorID {
	case t.OwnerID:
		flag = "owner_confirmed"
	case t.TraderID:
		flag = "trader_confirmed"
	default:
		return nil, fmt.Errorf("%w: not a trade participant", domain.ErrUnauthorized)
	}

	return s.Trades.Confirm(tradeID, flag, t.ItemID, t.OwnerID, t.TraderID)
}

// Rate lets a participant rate the other party once, after completion.
// The rating range is checked before any state is touched.
func (s *TradeService) Rate(actorID, tradeID string, rating int) error {
	if !validate.Rating(rating) {
		return fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidState)
	}
	t, err := s.Trades.Get(tradeID)
	if err != nil {
		return err
	}
	if !t.IsCompleted {
		return fmt.Errorf("%w: trade not completed yet", domain.ErrInvalidState)
	}

	var column, ratedUserID string
	switch actorID {
	case t.OwnerID:
		column, ratedUserID = "owner_rating", t.TraderID
	case t.TraderID:
		column, ratedUserID = "trader_rating", t.OwnerID
	default:
		return fmt.Errorf("%w: not a trade participant", domain.ErrUnauthorized)
	}

	return s.Trades.Rate(tradeID, column, ratedUserID, rating)
}
