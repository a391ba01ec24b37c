// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// TransactionStore holds the shared transaction set. The set only changes by
// prepending newly created transactions.
type TransactionStore interface {
	// Snapshot returns a copy of every transaction, newest insertion first.
	// Callers may reorder or modify the returned slice freely.
	Snapshot(ctx context.Context) ([]model.Transaction, error)
	// Prepend adds a transaction at the front of the set. A transaction whose
	// id already exists is rejected with common.ErrDuplicateEntry.
	Prepend(ctx context.Context, txn model.Transaction) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// TransactionAPI is the surface presentation code consumes.
type TransactionAPI interface {
	FetchTransactions(ctx context.Context, filters model.Filters) (model.Page, error)
	CreateTransaction(ctx context.Context, data model.CreateTransactionData) (model.Transaction, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
