// Package api is the asynchronous surface the dashboard consumes. It answers
// queries against a transaction store with simulated network latency.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/metrics"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/query"
	"github.com/rholibobo/transaction-dashboard/internal/service"
)

// Simulated round-trip latencies.
const (
	DefaultFetchLatency  = 800 * time.Millisecond
	DefaultCreateLatency = 1000 * time.Millisecond
)

// maxIDAttempts bounds id regeneration when the store reports a collision.
const maxIDAttempts = 5

// Client answers FetchTransactions and CreateTransaction from a store.
type Client struct {
	store         service.TransactionStore
	engine        query.Engine
	metrics       *metrics.Metrics
	newID         func() (string, error)
	now           func() time.Time
	fetchLatency  time.Duration
	createLatency time.Duration
}

var _ service.TransactionAPI = (*Client)(nil)

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithFetchLatency sets the delay before a query is answered.
func WithFetchLatency(d time.Duration) Option {
	return func(c *Client) {
		c.fetchLatency = d
	}
}

// WithCreateLatency sets the delay before a create is applied.
func WithCreateLatency(d time.Duration) Option {
	return func(c *Client) {
		c.createLatency = d
	}
}

// WithEngine replaces the query engine.
func WithEngine(engine query.Engine) Option {
	return func(c *Client) {
		c.engine = engine
	}
}

// WithMetrics records queries and creates on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithIDGenerator replaces the transaction id generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(c *Client) {
		c.newID = gen
	}
}

// New creates a client over store.
func New(store service.TransactionStore, opts ...Option) *Client {
	c := &Client{
		store:         store,
		engine:        query.New(),
		newID:         model.NewTransactionID,
		now:           time.Now,
		fetchLatency:  DefaultFetchLatency,
		createLatency: DefaultCreateLatency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTransactions waits the fetch latency, then answers filters against a
// snapshot of the store. Malformed filter values never produce an error.
func (c *Client) FetchTransactions(ctx context.Context, filters model.Filters) (model.Page, error) {
	start := c.now()

	if err := wait(ctx, c.fetchLatency); err != nil {
		return model.Page{}, err
	}

	all, err := c.store.Snapshot(ctx)
	if err != nil {
		return model.Page{}, common.Transient(fmt.Errorf("failed to load transactions: %w", err))
	}

	page := c.engine.Run(all, filters)
	c.metrics.RecordQuery(filters, page, c.now().Sub(start))

	slog.Debug("Fetched transactions",
		"page", page.CurrentPage,
		"total_pages", page.TotalPages,
		"total_items", page.TotalItems)

	return page, nil
}

// CreateTransaction waits the create latency, then creates the transaction.
func (c *Client) CreateTransaction(ctx context.Context, data model.CreateTransactionData) (model.Transaction, error) {
	if err := wait(ctx, c.createLatency); err != nil {
		return model.Transaction{}, err
	}
	return c.Create(ctx, data)
}

// Create assigns a fresh id to data and prepends the record to the store
// without validating it. Form validation belongs to the caller.
func (c *Client) Create(ctx context.Context, data model.CreateTransactionData) (model.Transaction, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := c.newID()
		if err != nil {
			return model.Transaction{}, fmt.Errorf("failed to generate transaction id: %w", err)
		}

		txn := model.Transaction{
			ID:     id,
			Amount: data.Amount,
			Status: data.Status,
			Date:   data.Date,
		}

		err = c.store.Prepend(ctx, txn)
		if errors.Is(err, common.ErrDuplicateEntry) {
			slog.Warn("Transaction id collision, regenerating", "id", id, "attempt", attempt)
			continue
		}
		if err != nil {
			return model.Transaction{}, common.Transient(fmt.Errorf("failed to store transaction: %w", err))
		}

		c.metrics.RecordCreate(txn.Status)
		if count, countErr := c.store.Count(ctx); countErr == nil {
			c.metrics.SetStoreSize(count)
		}

		slog.Info("Created transaction", "id", txn.ID, "amount", txn.Amount, "status", txn.Status)
		return txn, nil
	}

	return model.Transaction{}, fmt.Errorf("%w after %d attempts", common.ErrIDExhausted, maxIDAttempts)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
