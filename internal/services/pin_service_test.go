package services_test

import (
	"errors"
	"testing"

	"swapflow/internal/domain"
	"swapflow/internal/repos"
	"swapflow/internal/services"
)

func TestPinUnpinRecomputesBoost(t *testing.T) {
	db := memdb(t)
	mkUser(t, db, "u-owner", "owner@test.local")
	mkUser(t, db, "u-fan", "fan@test.local")
	mkItem(t, db, "item-1", "u-owner")

	itemRepo := repos.NewItemRepo(db)
	svc := services.NewPinService(repos.NewPinRepo(db))

	score, err := svc.Pin("u-fan", "item-1")
	if err != nil {
		t.Fatal(err)
	}
	if score != 10.0 {
		t.Fatalf("fresh pin: want boost 10.0, got %v", score)
	}

	// persisted score matches the returned one
	it, err := itemRepo.Get("item-1")
	if err != nil {
		t.Fatal(err)
	}
	if it.BoostScore != 10.0 || it.PinCount != 1 {
		t.Fatalf("want stored boost 10.0 / pins 1, got %v / %d", it.BoostScore, it.PinCount)
	}

	pinned, err := svc.Status("u-fan", "item-1")
	if err != nil || !pinned {
		t.Fatalf("want pinned=true, got %v err=%v", pinned, err)
	}

	score, err = svc.Unpin("u-fan", "item-1")
	if err != nil {
		t.Fatal(err)
	}
	if score != 0.0 {
		t.Fatalf("after unpin: want boost 0.0, got %v", score)
	}
	it, _ = itemRepo.Get("item-1")
	if it.BoostScore != 0.0 || it.PinCount != 0 {
		t.Fatalf("want stored boost 0.0 / pins 0, got %v / %d", it.BoostScore, it.PinCount)
	}
}

func TestDuplicatePinRejected(t *testing.T) {
	db := memdb(t)
	mkUser(t, db, "u-owner", "owner@test.local")
	mkUser(t, db, "u-fan", "fan@test.local")
	mkItem(t, db, "item-1", "u-owner")

	svc := services.NewPinService(repos.NewPinRepo(db))
	if _, err := svc.Pin("u-fan", "item-1"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Pin("u-fan", "item-1")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate pin: want ErrConflict, got %v", err)
	}

	// score unchanged by the rejected pin
	it, _ := repos.NewItemRepo(db).Get("item-1")
	if it.BoostScore != 10.0 || it.PinCount != 1 {
		t.Fatalf("rejected pin mutated state: boost %v pins %d", it.BoostScore, it.PinCount)
	}
}

func TestPinMissingItem(t *testing.T) {
	db := memdb(t)
	mkUser(t, db, "u-fan", "fan@test.local")

	svc := services.NewPinService(repos.NewPinRepo(db))
	if _, err := svc.Pin("u-fan", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("pin on missing item: want ErrNotFound, got %v", err)
	}
	if _, err := svc.Unpin("u-fan", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unpin without pin: want ErrNotFound, got %v", err)
	}
}

func TestTwoPinsStack(t *testing.T) {
	db := memdb(t)
	mkUser(t, db, "u-owner", "owner@test.local")
	mkUser(t, db, "u-a", "a@test.local")
	mkUser(t, db, "u-b", "b@test.local")
	mkItem(t, db, "item-1", "u-owner")

	svc := services.NewPinService(repos.NewPinRepo(db))
	if _, err := svc.Pin("u-a", "item-1"); err != nil {
		t.Fatal(err)
	}
	score, err := svc.Pin("u-b", "item-1")
	if err != nil {
		t.Fatal(err)
	}
	if score != 20.0 {
		t.Fatalf("two same-day pins: want 20.0, got %v", score)
	}
}
