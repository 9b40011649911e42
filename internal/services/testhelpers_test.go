package services_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"swapflow/internal/domain"
	"swapflow/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:", 7)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func mkUser(t *testing.T, db *sqlx.DB, id, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		UserID:    id,
		Email:     email,
		Name:      "Test " + id,
		Hash:      "x",
		Role:      "USER",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := repos.NewUserRepo(db).Create(u); err != nil {
		t.Fatal(err)
	}
	return u
}

func mkItem(t *testing.T, db *sqlx.DB, id, ownerID string) *domain.Item {
	t.Helper()
	it := &domain.Item{
		ItemID:      id,
		UserID:      ownerID,
		Title:       "Item " + id,
		Image:       "data:image/png;base64,x",
		Category:    "electronics",
		IsAvailable: true,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := repos.NewItemRepo(db).Create(it); err != nil {
		t.Fatal(err)
	}
	return it
}
