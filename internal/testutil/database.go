// Package testutil provides fixtures and store helpers for the dashboard tests.
package testutil

import (
	"context"
	"testing"

	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/storage"
)

// TestDB wraps an in-memory SQLite store registered for cleanup.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database holding txns in the
// given order.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewTransactionBuilder().
//			WithStatus(model.StatusFailed).
//			Build(),
//	)
func SetupTestDB(t *testing.T, txns ...model.Transaction) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(txns) > 0 {
		if _, err := store.Seed(ctx, txns); err != nil {
			t.Fatalf("failed to seed transactions: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustSnapshot returns the stored transactions or fails the test.
func (db *TestDB) MustSnapshot() []model.Transaction {
	db.t.Helper()
	txns, err := db.Storage.Snapshot(context.Background())
	if err != nil {
		db.t.Fatalf("failed to snapshot transactions: %v", err)
	}
	return txns
}

// SetupMemoryStore creates a memory store holding txns, closed on cleanup.
func SetupMemoryStore(t *testing.T, txns ...model.Transaction) *storage.MemoryStore {
	t.Helper()

	store, err := storage.NewMemoryStore(txns...)
	if err != nil {
		t.Fatalf("failed to create memory store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
