package main

import (
	"regexp"
	"testing"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/api"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/query"
	"github.com/rholibobo/transaction-dashboard/internal/storage"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func fixtureTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "TX-ABCD1234", Amount: 1500, Status: model.StatusCompleted, Date: time.Date(2023, 5, 15, 10, 30, 0, 0, time.UTC)},
		{ID: "TX-EFGH5678", Amount: 750.5, Status: model.StatusPending, Date: time.Date(2023, 5, 16, 14, 45, 0, 0, time.UTC)},
		{ID: "TX-IJKL9012", Amount: 2000, Status: model.StatusFailed, Date: time.Date(2023, 5, 17, 9, 15, 0, 0, time.UTC)},
		{ID: "TX-MNOP3456", Amount: 15.25, Status: model.StatusCompleted, Date: time.Date(2023, 6, 2, 8, 0, 0, 0, time.UTC)},
	}
}

// newTestClient builds a client over a memory store holding txns, answering
// without latency in UTC.
func newTestClient(t *testing.T, txns ...model.Transaction) (*api.Client, *storage.MemoryStore) {
	t.Helper()
	store, err := storage.NewMemoryStore(txns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	client := api.New(store,
		api.WithEngine(query.Engine{PageSize: query.DefaultPageSize, Location: time.UTC}),
		api.WithFetchLatency(0),
		api.WithCreateLatency(0),
	)
	return client, store
}
