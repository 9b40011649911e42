package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"swapflow/internal/domain"
	"swapflow/internal/repos"
	"swapflow/internal/services"
)

func listingFixture(t *testing.T) (*services.ListingService, *sqlx.DB) {
	t.Helper()
	db := memdb(t)
	mkUser(t, db, "u-owner", "owner@test.local")
	svc := services.NewListingService(
		repos.NewItemRepo(db),
		repos.NewCategoryRepo(db),
		repos.NewPortfolioRepo(db),
		repos.NewSettingsRepo(db),
	)
	return svc, db
}

func TestCreateItemRegistersCategories(t *testing.T) {
	svc, db := listingFixture(t)

	it, err := svc.CreateItem("u-owner", services.ItemCreate{
		Title:          "Record player",
		Image:          "data:image/png;base64,x",
		Category:       "electronics",
		Subcategory:    "audio",
		BottomCategory: "turntables",
	})
	if err != nil {
		t.Fatal(err)
	}
	if it.ItemID == "" || !it.IsAvailable {
		t.Fatalf("created item: %+v", it)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("want 3 category rows (main/sub/bottom), got %d", n)
	}
}

func TestListRankedByBoost(t *testing.T) {
	svc, db := listingFixture(t)
	mkUser(t, db, "u-fan", "fan@test.local")
	mkItem(t, db, "item-a", "u-owner")
	mkItem(t, db, "item-b", "u-owner")

	pins := services.NewPinService(repos.NewPinRepo(db))
	if _, err := pins.Pin("u-fan", "item-b"); err != nil {
		t.Fatal(err)
	}

	items, err := svc.List("", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
	if items[0].ItemID != "item-b" {
		t.Fatalf("boosted item not first: %s", items[0].ItemID)
	}
}

func TestListBumpsCategoryClicks(t *testing.T) {
	svc, db := listingFixture(t)
	mkItem(t, db, "item-a", "u-owner")

	if _, err := svc.List("electronics", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.List("electronics", ""); err != nil {
		t.Fatal(err)
	}

	var clicks int
	if err := db.Get(&clicks, `SELECT click_count FROM categories WHERE name='electronics' AND level='main'`); err != nil {
		t.Fatal(err)
	}
	if clicks != 2 {
		t.Fatalf("want 2 clicks, got %d", clicks)
	}
}

func TestDeleteItemOwnerOnly(t *testing.T) {
	svc, db := listingFixture(t)
	mkUser(t, db, "u-other", "other@test.local")
	mkItem(t, db, "item-a", "u-owner")

	if err := svc.DeleteItem("u-other", "item-a"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("non-owner delete: want ErrUnauthorized, got %v", err)
	}
	if err := svc.DeleteItem("u-owner", "item-a"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get("item-a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted item still readable: %v", err)
	}
}

func TestPortfolioDropsUnknownIDs(t *testing.T) {
	svc, db := listingFixture(t)
	mkItem(t, db, "item-a", "u-owner")

	// stale ids from a resubmitted list are dropped, not an error
	ids, err := svc.UpdatePortfolio("u-owner", []string{"item-a", "item-gone"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "item-a" {
		t.Fatalf("want [item-a], got %v", ids)
	}

	items, err := svc.Portfolio("u-owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ItemID != "item-a" {
		t.Fatalf("portfolio with stale id: %+v", items)
	}
}

func TestPortfolioCapAndOrdering(t *testing.T) {
	svc, db := listingFixture(t)
	mkUser(t, db, "u-fan", "fan@test.local")
	mkItem(t, db, "item-a", "u-owner")
	mkItem(t, db, "item-b", "u-owner")
	mkItem(t, db, "item-c", "u-owner")

	if err := repos.NewSettingsRepo(db).SetMaxPortfolioItems(2); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdatePortfolio("u-owner", []string{"item-a", "item-b", "item-c"}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("over-cap portfolio: want ErrInvalidState, got %v", err)
	}

	ids, err := svc.UpdatePortfolio("u-owner", []string{"item-a", "item-b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("want 2 portfolio ids, got %v", ids)
	}

	// boost sorts the showcase regardless of insertion order
	pins := services.NewPinService(repos.NewPinRepo(db))
	if _, err := pins.Pin("u-fan", "item-b"); err != nil {
		t.Fatal(err)
	}
	items, err := svc.Portfolio("u-owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ItemID != "item-b" {
		t.Fatalf("portfolio ordering: %+v", items)
	}

	// deleted items are silently dropped from the showcase
	if err := svc.DeleteItem("u-owner", "item-a"); err != nil {
		t.Fatal(err)
	}
	items, err = svc.Portfolio("u-owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ItemID != "item-b" {
		t.Fatalf("portfolio after delete: %+v", items)
	}
}
