package services

import (
	"fmt"
	"time"

	"swapflow/internal/domain"
	"swapflow/internal/repos"
)

type AdminService struct {
	Users         *repos.UserRepo
	Items         *repos.ItemRepo
	Trades        *repos.TradeRepo
	Reports       *repos.ReportRepo
	Cats          *repos.CategoryRepo
	Announcements *repos.AnnouncementRepo
	Settings      *repos.SettingsRepo
}

type Stats struct {
	Users struct {
		Total     int `json:"total"`
		Suspended int `json:"suspended"`
	} `json:"users"`
	Items struct {
		Total     int `json:"total"`
		Available int `json:"available"`
	} `json:"items"`
	Trades struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
	} `json:"trades"`
	Reports struct {
		Pending int `json:"pending"`
	} `json:"reports"`
	Categories struct {
		Total int `json:"total"`
	} `json:"categories"`
}

func (s *AdminService) Stats() (*Stats, error) {
	var st Stats
	db := s.Users.DB
	if err := db.Get(&st.Users.Total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, err
	}
	if err := db.Get(&st.Users.Suspended, `SELECT COUNT(*) FROM users WHERE suspended_until IS NOT NULL`); err != nil {
		return nil, err
	}
	if err := db.Get(&st.Items.Total, `SELECT COUNT(*) FROM items`); err != nil {
		return nil, err
	}
	if err := db.Get(&st.Items.Available, `SELECT COUNT(*) FROM items WHERE is_available=1`); err != nil {
		return nil, err
	}
	tc, err := s.Trades.Counts()
	if err != nil {
		return nil, err
	}
	st.Trades.Total, st.Trades.Completed = tc.Total, tc.Completed
	if st.Reports.Pending, err = s.Reports.CountPending(); err != nil {
		return nil, err
	}
	if err := db.Get(&st.Categories.Total, `SELECT COUNT(*) FROM categories`); err != nil {
		return nil, err
	}
	return &st, nil
}

// ---------- users ----------

func (s *AdminService) ListUsers(search string, suspendedOnly bool) ([]domain.User, error) {
	return s.Users.ListAdmin(search, suspendedOnly)
}

// Suspend blocks a user for the given number of days; days <= 0 lifts the
// suspension. Admin accounts cannot be suspended.
func (s *AdminService) Suspend(userID string, days int, reason string) error {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return fmt.Errorf("%w: cannot suspend an admin", domain.ErrInvalidState)
	}
	if days <= 0 {
		return s.Users.SetSuspension(userID, nil, "")
	}
	until := time.Now().UTC().AddDate(0, 0, days)
	return s.Users.SetSuspension(userID, &until, reason)
}

func (s *AdminService) DeleteUser(userID string) error {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return fmt.Errorf("%w: cannot delete an admin", domain.ErrInvalidState)
	}
	return s.Users.DeleteCascade(userID)
}

// ---------- items ----------

func (s *AdminService) ListItems(search string) ([]domain.Item, error) {
	return s.Items.ListAdmin(search, 200)
}

func (s *AdminService) DeleteItem(itemID string) error {
	return s.Items.Delete(itemID)
}

func (s *AdminService) BulkDeleteItems(ids []string) (int, error) {
	return s.Items.BulkDelete(ids)
}

// ---------- categories ----------

// CategoriesGrouped returns categories bucketed by level for the dashboard.
func (s *AdminService) CategoriesGrouped() (map[string][]domain.Category, error) {
	all, err := s.Cats.ListAll()
	if err != nil {
		return nil, err
	}
	out := map[string][]domain.Category{"main": {}, "sub": {}, "bottom": {}}
	for _, c := range all {
		out[c.Level] = append(out[c.Level], c)
	}
	return out, nil
}

func (s *AdminService) DeleteCategory(name string) error {
	n, err := s.Cats.Delete(name)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: category %s", domain.ErrNotFound, name)
	}
	return nil
}

func (s *AdminService) BulkDeleteCategories(names []string) (int, error) {
	return s.Cats.BulkDelete(names)
}

// ---------- reports ----------

func (s *AdminService) ListReports() ([]domain.Report, error) {
	return s.Reports.ListAll(200)
}

func (s *AdminService) SetReportStatus(reportID, status string) error {
	if status != "pending" && status != "reviewed" && status != "resolved" {
		return fmt.Errorf("%w: unknown report status %q", domain.ErrInvalidState, status)
	}
	return s.Reports.UpdateStatus(reportID, status)
}

// ---------- announcements ----------

func (s *AdminService) CreateAnnouncement(adminID, message string) (*domain.Announcement, error) {
	a := &domain.Announcement{
		AnnouncementID: domain.NewID("ann"),
		Message:        message,
		IsActive:       true,
		CreatedBy:      adminID,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Announcements.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AdminService) ToggleAnnouncement(id string, active bool) error {
	return s.Announcements.SetActive(id, active)
}

func (s *AdminService) DeleteAnnouncement(id string) error {
	return s.Announcements.Delete(id)
}

// ---------- settings ----------

func (s *AdminService) UpdateMaxPortfolioItems(n int) error {
	if n < 1 || n > 100 {
		return fmt.Errorf("%w: max_portfolio_items out of range", domain.ErrInvalidState)
	}
	return s.Settings.SetMaxPortfolioItems(n)
}
