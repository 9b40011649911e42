package services

import (
	"swapflow/internal/repos"
)

type PinService struct {
	Pins *repos.PinRepo
}

func NewPinService(pins *repos.PinRepo) *PinService { return &PinService{Pins: pins} }

// Pin endorses an item for the user and returns the item's new boost score.
func (s *PinService) Pin(userID, itemID string) (float64, error) {
	return s.Pins.Add(userID, itemID)
}

// Unpin withdraws the endorsement and returns the item's new boost score.
func (s *PinService) Unpin(userID, itemID string) (float64, error) {
	return s.Pins.Remove(userID, itemID)
}

func (s *PinService) Status(userID, itemID string) (bool, error) {
	return s.Pins.IsPinned(userID, itemID)
}
