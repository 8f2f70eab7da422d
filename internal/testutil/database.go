// Package testutil provides test utilities shared across the sage project.
package testutil

import (
	"context"
	"testing"

	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/service"
	"github.com/okaimono/sage/internal/storage"
)

// TestDB represents a migrated in-memory test database.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database with migrations applied
// and cleanup registered.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedSavingsRecord inserts a savings record or fails the test.
func (db *TestDB) SeedSavingsRecord(userID string, saved, overpaid, items int) {
	db.t.Helper()

	record := &model.SavingsRecord{
		UserID:              userID,
		PurchaseDate:        "2025-06-01",
		TotalSavedAmount:    saved,
		TotalOverpaidAmount: overpaid,
		ItemCount:           items,
	}
	if err := db.Storage.SaveSavingsRecord(context.Background(), record); err != nil {
		db.t.Fatalf("failed to seed savings record: %v", err)
	}
}

// SeedProfile inserts a profile with the given nickname or fails the test.
// Pass an empty nickname for a profile without one.
func (db *TestDB) SeedProfile(userID, nickname string) {
	db.t.Helper()

	profile := &model.Profile{ID: userID}
	if nickname != "" {
		profile.Nickname = &nickname
	}
	if err := db.Storage.UpsertProfile(context.Background(), profile); err != nil {
		db.t.Fatalf("failed to seed profile: %v", err)
	}
}
