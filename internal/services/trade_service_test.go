package services_test

import (
	"errors"
	"testing"

	"swapflow/internal/domain"
	"swapflow/internal/repos"
	"swapflow/internal/services"
)

func tradeFixture(t *testing.T) (*services.TradeService, *repos.UserRepo, *repos.ItemRepo) {
	t.Helper()
	db := memdb(t)
	mkUser(t, db, "u-owner", "owner@test.local")
	mkUser(t, db, "u-trader", "trader@test.local")
	mkUser(t, db, "u-other", "other@test.local")
	mkItem(t, db, "item-1", "u-owner")
	itemRepo := repos.NewItemRepo(db)
	return services.NewTradeService(repos.NewTradeRepo(db), itemRepo), repos.NewUserRepo(db), itemRepo
}

func TestCreateTradeGuards(t *testing.T) {
	svc, _, _ := tradeFixture(t)

	if _, err := svc.Create("u-owner", "item-1"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("self-trade: want ErrConflict, got %v", err)
	}
	if _, err := svc.Create("u-trader", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing item: want ErrNotFound, got %v", err)
	}
}

func TestCreateTradeIdempotentWhileOpen(t *testing.T) {
	svc, _, _ := tradeFixture(t)

	first, err := svc.Create("u-trader", "item-1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create("u-trader", "item-1")
	if err != nil {
		t.Fatal(err)
	}
	if second.TradeID != first.TradeID {
		t.Fatalf("open trade re-request created a duplicate: %s vs %s", second.TradeID, first.TradeID)
	}
	if second.OwnerConfirmed || second.TraderConfirmed || second.IsCompleted {
		t.Fatalf("returned trade mutated: %+v", second)
	}
}

func TestConfirmAuthorization(t *testing.T) {
	svc, _, _ := tradeFixture(t)
	tr, err := svc.Create("u-trader", "item-1")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Confirm("u-other", tr.TradeID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("stranger confirm: want ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Get("u-other", tr.TradeID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("stranger get: want ErrUnauthorized, got %v", err)
	}
}

func TestMutualConfirmSettlesOnce(t *testing.T) {
	svc, userRepo, itemRepo := tradeFixture(t)
	tr, err := svc.Create("u-trader", "item-1")
	if err != nil {
		t.Fatal(err)
	}

	tr, err = svc.Confirm("u-owner", tr.TradeID)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.OwnerConfirmed || tr.IsCompleted {
		t.Fatalf("after owner confirm: %+v", tr)
	}

	// re-confirm by the same party is a tolerated no-op
	tr, err = svc.Confirm("u-owner", tr.TradeID)
	if err != nil {
		t.Fatal(err)
	}
	if tr.IsCompleted {
		t.Fatalf("re-confirm completed the trade: %+v", tr)
	}

	tr, err = svc.Confirm("u-trader", tr.TradeID)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.IsCompleted || tr.CompletedAt == nil {
		t.Fatalf("both confirmed but not completed: %+v", tr)
	}

	it, err := itemRepo.Get("item-1")
	if err != nil {
		t.Fatal(err)
	}
	if it.IsAvailable {
		t.Fatal("item still available after settlement")
	}

	owner, _ := userRepo.ByID("u-owner")
	trader, _ := userRepo.ByID("u-trader")
	if owner.TradePoints != 1 || trader.TradePoints != 1 {
		t.Fatalf("trade points: owner %d trader %d, want 1/1", owner.TradePoints, trader.TradePoints)
	}

	// confirming a completed trade is rejected, and points stay put
	if _, err := svc.Confirm("u-owner", tr.TradeID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("confirm on completed: want ErrInvalidState, got %v", err)
	}
	owner, _ = userRepo.ByID("u-owner")
	if owner.TradePoints != 1 {
		t.Fatalf("settlement side effects re-fired: points %d", owner.TradePoints)
	}
}

func TestRateLifecycle(t *testing.T) {
	svc, userRepo, _ := tradeFixture(t)
	tr, err := svc.Create("u-trader", "item-1")
	if err != nil {
		t.Fatal(err)
	}

	// rating before completion is rejected
	if err := svc.Rate("u-owner", tr.TradeID, 5); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("rate before completion: want ErrInvalidState, got %v", err)
	}

	if _, err := svc.Confirm("u-owner", tr.TradeID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Confirm("u-trader", tr.TradeID); err != nil {
		t.Fatal(err)
	}

	// out-of-range is rejected before any mutation
	if err := svc.Rate("u-owner", tr.TradeID, 6); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("rating 6: want ErrInvalidState, got %v", err)
	}
	trader, _ := userRepo.ByID("u-trader")
	if trader.Rating != nil || trader.RatingCount != 0 {
		t.Fatalf("rejected rating mutated user: %+v", trader)
	}

	// owner rates the trader
	if err := svc.Rate("u-owner", tr.TradeID, 4); err != nil {
		t.Fatal(err)
	}
	trader, _ = userRepo.ByID("u-trader")
	if trader.Rating == nil || *trader.Rating != 4.0 || trader.RatingCount != 1 {
		t.Fatalf("after first rating: %+v", trader)
	}

	// second rating by the same party is rejected and changes nothing
	if err := svc.Rate("u-owner", tr.TradeID, 1); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("duplicate rating: want ErrInvalidState, got %v", err)
	}
	trader, _ = userRepo.ByID("u-trader")
	if *trader.Rating != 4.0 || trader.RatingCount != 1 {
		t.Fatalf("duplicate rating mutated user: %+v", trader)
	}

	// trader rates the owner independently
	if err := svc.Rate("u-trader", tr.TradeID, 5); err != nil {
		t.Fatal(err)
	}
	owner, _ := userRepo.ByID("u-owner")
	if owner.Rating == nil || *owner.Rating != 5.0 || owner.RatingCount != 1 {
		t.Fatalf("owner rating: %+v", owner)
	}
}

// Running average across successive trades: 4 then 5 -> 4.5.
func TestRatingRunningAverage(t *testing.T) {
	db := memdb(t)
	mkUser(t, db, "u-owner", "owner@test.local")
	mkUser(t, db, "u-trader", "trader@test.local")
	mkItem(t, db, "item-1", "u-owner")
	mkItem(t, db, "item-2", "u-owner")
	userRepo := repos.NewUserRepo(db)
	svc := services.NewTradeService(repos.NewTradeRepo(db), repos.NewItemRepo(db))

	completeAndRate := func(itemID string, rating int) {
		t.Helper()
		tr, err := svc.Create("u-trader", itemID)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Confirm("u-owner", tr.TradeID); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Confirm("u-trader", tr.TradeID); err != nil {
			t.Fatal(err)
		}
		if err := svc.Rate("u-trader", tr.TradeID, rating); err != nil {
			t.Fatal(err)
		}
	}

	completeAndRate("item-1", 4)
	completeAndRate("item-2", 5)

	owner, err := userRepo.ByID("u-owner")
	if err != nil {
		t.Fatal(err)
	}
	if owner.Rating == nil || *owner.Rating != 4.5 || owner.RatingCount != 2 {
		t.Fatalf("running average: %+v", owner)
	}
	if owner.TradePoints != 2 {
		t.Fatalf("want 2 trade points after 2 settlements, got %d", owner.TradePoints)
	}
}

func TestTradeOnUnavailableItem(t *testing.T) {
	svc, _, _ := tradeFixture(t)
	tr, err := svc.Create("u-trader", "item-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Confirm("u-owner", tr.TradeID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Confirm("u-trader", tr.TradeID); err != nil {
		t.Fatal(err)
	}

	// item settled away; a new trade on it is rejected
	if _, err := svc.Create("u-other", "item-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("trade on unavailable item: want ErrNotFound, got %v", err)
	}
}
