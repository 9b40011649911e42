package services

import (
	"fmt"
	"time"

	"swapflow/internal/domain"
	"swapflow/internal/repos"
)

const listingLimit = 100

type ListingService struct {
	Items      *repos.ItemRepo
	Cats       *repos.CategoryRepo
	Portfolios *repos.PortfolioRepo
	Settings   *repos.SettingsRepo

	// called when the best-effort category click increment fails
	OnClickErr func(category string, err error)
}

func NewListingService(items *repos.ItemRepo, cats *repos.CategoryRepo,
	portfolios *repos.PortfolioRepo, settings *repos.SettingsRepo) *ListingService {
	return &ListingService{Items: items, Cats: cats, Portfolios: portfolios, Settings: settings}
}

type ItemCreate struct {
	Title          string
	Description    string
	Image          string
	Category       string
	Subcategory    string
	BottomCategory string
}

func (s *ListingService) CreateItem(ownerID string, in ItemCreate) (*domain.Item, error) {
	it := &domain.Item{
		ItemID:         domain.NewID("item"),
		UserID:         ownerID,
		Title:          in.Title,
		Description:    in.Description,
		Image:          in.Image,
		Category:       in.Category,
		Subcategory:    in.Subcategory,
		BottomCategory: in.BottomCategory,
		IsAvailable:    true,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Items.Create(it); err != nil {
		return nil, err
	}
	_ = s.Cats.Ensure(in.Category, "main")
	if in.Subcategory != "" {
		_ = s.Cats.Ensure(in.Subcategory, "sub")
	}
	if in.BottomCategory != "" {
		_ = s.Cats.Ensure(in.BottomCategory, "bottom")
	}
	return it, nil
}

// List returns available items ranked by boost score. A category filter also
// bumps that category's click count; the bump is best-effort and never fails
// the listing.
func (s *ListingService) List(category, ownerID string) ([]domain.Item, error) {
	if category != "" {
		if err := s.Cats.IncrementClick(category); err != nil && s.OnClickErr != nil {
			s.OnClickErr(category, err)
		}
	}
	return s.Items.ListAvailable(category, ownerID, listingLimit)
}

func (s *ListingService) Get(itemID string) (*domain.Item, error) {
	return s.Items.Get(itemID)
}

func (s *ListingService) MyItems(ownerID string) ([]domain.Item, error) {
	return s.Items.ListByOwner(ownerID, listingLimit)
}

// DeleteItem removes an item on behalf of its owner. Pins and portfolio rows
// referencing it go with it.
func (s *ListingService) DeleteItem(actorID, itemID string) error {
	it, err := s.Items.Get(itemID)
	if err != nil {
		return err
	}
	if it.UserID != actorID {
		return fmt.Errorf("%w: not the item owner", domain.ErrUnauthorized)
	}
	return s.Items.Delete(itemID)
}

func (s *ListingService) Categories() ([]domain.Category, error) {
	return s.Cats.List()
}

// Portfolio returns a user's showcase, boost-sorted, with deleted items
// silently dropped.
func (s *ListingService) Portfolio(userID string) ([]domain.Item, error) {
	return s.Portfolios.Items(userID)
}

// UpdatePortfolio replaces the user's portfolio, capped at the global limit.
func (s *ListingService) UpdatePortfolio(userID string, itemIDs []string) ([]string, error) {
	cfg, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}
	if len(itemIDs) > cfg.MaxPortfolioItems {
		return nil, fmt.Errorf("%w: portfolio limited to %d items", domain.ErrInvalidState, cfg.MaxPortfolioItems)
	}
	if err := s.Portfolios.Replace(userID, itemIDs); err != nil {
		return nil, err
	}
	return s.Portfolios.ItemIDs(userID)
}
