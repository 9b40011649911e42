package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
)

type ReportRepo struct{ db *sqlx.DB }

func NewReportRepo(db *sqlx.DB) *ReportRepo { return &ReportRepo{db: db} }

func (r *ReportRepo) Create(rep *domain.Report) error {
	_, err := r.db.Exec(`
		INSERT INTO reports(report_id, reporter_id, report_type, reported_id, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?, 'pending', ?)
	`, rep.ReportID, rep.ReporterID, rep.ReportType, rep.ReportedID, rep.Reason, rep.CreatedAt)
	return err
}

func (r *ReportRepo) ListAll(limit int) ([]domain.Report, error) {
	var out []domain.Report
	err := r.db.Select(&out, `
	  SELECT report_id, reporter_id, report_type, reported_id, reason, status, created_at
	  FROM reports
	  ORDER BY created_at DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *ReportRepo) UpdateStatus(reportID, status string) error {
	res, err := r.db.Exec(`UPDATE reports SET status=? WHERE report_id=?`, status, reportID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: report %s", domain.ErrNotFound, reportID)
	}
	return nil
}

func (r *ReportRepo) CountPending() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM reports WHERE status='pending'`)
	return n, err
}
