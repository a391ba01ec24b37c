package testutil

import (
	"fmt"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// FixedNow is the reference instant fixtures are dated against.
var FixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// TransactionBuilder provides a fluent interface for constructing test
// transactions. Each Build call yields a fresh transaction with a
// deterministic id.
type TransactionBuilder struct {
	date   time.Time
	status model.Status
	amount float64
	seq    int
}

// NewTransactionBuilder starts from a completed 100.00 transaction dated
// FixedNow.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		date:   FixedNow,
		status: model.StatusCompleted,
		amount: 100,
	}
}

// WithAmount sets the amount.
func (b *TransactionBuilder) WithAmount(amount float64) *TransactionBuilder {
	b.amount = amount
	return b
}

// WithStatus sets the status.
func (b *TransactionBuilder) WithStatus(status model.Status) *TransactionBuilder {
	b.status = status
	return b
}

// WithDate sets the date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.date = date
	return b
}

// DaysAgo dates the transaction n days before FixedNow.
func (b *TransactionBuilder) DaysAgo(n int) *TransactionBuilder {
	b.date = FixedNow.AddDate(0, 0, -n)
	return b
}

// Build returns the next transaction.
func (b *TransactionBuilder) Build() model.Transaction {
	b.seq++
	return model.Transaction{
		ID:     fmt.Sprintf("%sTEST%04d", model.IDPrefix, b.seq),
		Amount: b.amount,
		Status: b.status,
		Date:   b.date,
	}
}

// BuildN returns n transactions one day apart, newest first, cycling
// through the concrete statuses with increasing amounts.
func (b *TransactionBuilder) BuildN(n int) []model.Transaction {
	txns := make([]model.Transaction, 0, n)
	start := b.date
	for i := 0; i < n; i++ {
		b.date = start.AddDate(0, 0, -i)
		b.status = model.Statuses[i%len(model.Statuses)]
		b.amount = float64(100 * (i + 1))
		txns = append(txns, b.Build())
	}
	b.date = start
	return txns
}
