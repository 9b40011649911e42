package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
	"swapflow/internal/repos"
	"swapflow/internal/services"
)

func adminFixture(t *testing.T) (*services.AdminService, *sqlx.DB) {
	t.Helper()
	db := memdb(t)
	svc := &services.AdminService{
		Users:         repos.NewUserRepo(db),
		Items:         repos.NewItemRepo(db),
		Trades:        repos.NewTradeRepo(db),
		Reports:       repos.NewReportRepo(db),
		Cats:          repos.NewCategoryRepo(db),
		Announcements: repos.NewAnnouncementRepo(db),
		Settings:      repos.NewSettingsRepo(db),
	}
	return svc, db
}

func TestSuspendGuardsAdmins(t *testing.T) {
	svc, db := adminFixture(t)
	mkUser(t, db, "u-plain", "plain@test.local")
	root := mkUser(t, db, "u-root", "root@test.local")
	if _, err := db.Exec(`UPDATE users SET role='ADMIN' WHERE user_id=?`, root.UserID); err != nil {
		t.Fatal(err)
	}

	if err := svc.Suspend("u-root", 7, "test"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("suspend admin: want ErrInvalidState, got %v", err)
	}
	if err := svc.DeleteUser("u-root"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("delete admin: want ErrInvalidState, got %v", err)
	}

	if err := svc.Suspend("u-plain", 7, "spam"); err != nil {
		t.Fatal(err)
	}
	u, _ := svc.Users.ByID("u-plain")
	if u.SuspendedUntil == nil || u.SuspensionReason == nil || *u.SuspensionReason != "spam" {
		t.Fatalf("suspension not recorded: %+v", u)
	}

	// days <= 0 lifts it
	if err := svc.Suspend("u-plain", 0, ""); err != nil {
		t.Fatal(err)
	}
	u, _ = svc.Users.ByID("u-plain")
	if u.SuspendedUntil != nil {
		t.Fatalf("suspension not lifted: %+v", u)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	svc, db := adminFixture(t)
	mkUser(t, db, "u-gone", "gone@test.local")
	mkUser(t, db, "u-stay", "stay@test.local")
	mkItem(t, db, "item-1", "u-gone")

	trades := services.NewTradeService(repos.NewTradeRepo(db), repos.NewItemRepo(db))
	if _, err := trades.Create("u-stay", "item-1"); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteUser("u-gone"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Users.ByID("u-gone"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("user survived delete: %v", err)
	}
	var items, openTrades int
	if err := db.Get(&items, `SELECT COUNT(*) FROM items WHERE user_id='u-gone'`); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&openTrades, `SELECT COUNT(*) FROM trades WHERE owner_id='u-gone' AND is_completed=0`); err != nil {
		t.Fatal(err)
	}
	if items != 0 || openTrades != 0 {
		t.Fatalf("cascade left items=%d openTrades=%d", items, openTrades)
	}
}

func TestStatsCounts(t *testing.T) {
	svc, db := adminFixture(t)
	mkUser(t, db, "u-a", "a@test.local")
	mkUser(t, db, "u-b", "b@test.local")
	mkItem(t, db, "item-1", "u-a")
	mkItem(t, db, "item-2", "u-a")

	trades := services.NewTradeService(repos.NewTradeRepo(db), repos.NewItemRepo(db))
	tr, err := trades.Create("u-b", "item-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := trades.Confirm("u-a", tr.TradeID); err != nil {
		t.Fatal(err)
	}
	if _, err := trades.Confirm("u-b", tr.TradeID); err != nil {
		t.Fatal(err)
	}

	st, err := svc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Users.Total != 2 {
		t.Fatalf("users total: %d", st.Users.Total)
	}
	if st.Items.Total != 2 || st.Items.Available != 1 {
		t.Fatalf("items: %+v", st.Items)
	}
	if st.Trades.Total != 1 || st.Trades.Completed != 1 {
		t.Fatalf("trades: %+v", st.Trades)
	}
}

func TestReportStatusValidation(t *testing.T) {
	svc, db := adminFixture(t)
	mkUser(t, db, "u-a", "a@test.local")

	r := &domain.Report{
		ReportID:   domain.NewID("report"),
		ReporterID: "u-a",
		ReportType: "user",
		ReportedID: "u-a",
		Reason:     "test",
		Status:     "pending",
		CreatedAt:  "2026-01-01T00:00:00Z",
	}
	if err := repos.NewReportRepo(db).Create(r); err != nil {
		t.Fatal(err)
	}

	if err := svc.SetReportStatus(r.ReportID, "bogus"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("bogus status: want ErrInvalidState, got %v", err)
	}
	if err := svc.SetReportStatus(r.ReportID, "resolved"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetReportStatus("report_missing", "resolved"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing report: want ErrNotFound, got %v", err)
	}
}

func TestSettingsRange(t *testing.T) {
	svc, _ := adminFixture(t)
	if err := svc.UpdateMaxPortfolioItems(0); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("0 items: want ErrInvalidState, got %v", err)
	}
	if err := svc.UpdateMaxPortfolioItems(101); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("101 items: want ErrInvalidState, got %v", err)
	}
	if err := svc.UpdateMaxPortfolioItems(10); err != nil {
		t.Fatal(err)
	}
	s, err := svc.Settings.Get()
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxPortfolioItems != 10 {
		t.Fatalf("want 10, got %d", s.MaxPortfolioItems)
	}
}
