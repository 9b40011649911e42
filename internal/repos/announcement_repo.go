package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type AnnouncementRepo struct{ db *sqlx.DB }

func NewAnnouncementRepo(db *sqlx.DB) *AnnouncementRepo { return &AnnouncementRepo{db: db} }

func (r *AnnouncementRepo) Create(a *domain.Announcement) error {
	_, err := r.db.Exec(`
		INSERT INTO announcements(announcement_id, message, is_active, created_by, created_at)
		VALUES (?, ?, 1, ?, ?)
	`, a.AnnouncementID, a.Message, a.CreatedBy, a.CreatedAt)
	return err
}

func (r *AnnouncementRepo) ListActive() ([]domain.Announcement, error) {
	var out []domain.Announcement
	err := r.db.Select(&out, `
	  SELECT announcement_id, message, is_active, created_by, created_at
	  FROM announcements
	  WHERE is_active = 1
	  ORDER BY created_at DESC
	`)
	return out, err
}

func (r *AnnouncementRepo) ListAll() ([]domain.Announcement, error) {
	var out []domain.Announcement
	err := r.db.Select(&out, `
	  SELECT announcement_id, message, is_active, created_by, created_at
	  FROM announcements
	  ORDER BY created_at DESC
	`)
	return out, err
}

func (r *AnnouncementRepo) SetActive(id string, active bool) error {
	res, err := r.db.Exec(`UPDATE announcements SET is_active=? WHERE announcement_id=?`, active, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: announcement %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *AnnouncementRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM announcements WHERE announcement_id=?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: announcement %s", domain.ErrNotFound, id)
	}
	return nil
}
