package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// MemoryStore keeps the transaction set in process memory for the lifetime of
// the session.
type MemoryStore struct {
	ids    map[string]struct{}
	items  []model.Transaction
	mu     sync.RWMutex
	closed bool
}

// NewMemoryStore creates a store holding txns in the given order.
func NewMemoryStore(txns ...model.Transaction) (*MemoryStore, error) {
	s := &MemoryStore{
		ids:   make(map[string]struct{}, len(txns)),
		items: make([]model.Transaction, 0, len(txns)),
	}
	for _, txn := range txns {
		if err := validateTransaction(txn); err != nil {
			return nil, err
		}
		if _, exists := s.ids[txn.ID]; exists {
			return nil, fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, txn.ID)
		}
		s.ids[txn.ID] = struct{}{}
		s.items = append(s.items, txn)
	}
	return s, nil
}

// NewSeededMemoryStore creates a store holding the built-in sample dataset.
func NewSeededMemoryStore() (*MemoryStore, error) {
	seed, err := SeedTransactions()
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(seed...)
}

// Snapshot returns a copy of the set, newest insertion first.
func (s *MemoryStore) Snapshot(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, common.ErrStoreClosed
	}
	return slices.Clone(s.items), nil
}

// Prepend adds txn at the front of the set.
func (s *MemoryStore) Prepend(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return common.ErrStoreClosed
	}
	if _, exists := s.ids[txn.ID]; exists {
		return fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, txn.ID)
	}

	s.ids[txn.ID] = struct{}{}
	s.items = slices.Insert(s.items, 0, txn)
	return nil
}

// Count returns the number of transactions in the set.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, common.ErrStoreClosed
	}
	return len(s.items), nil
}

// Close releases the set. Further calls fail with common.ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.items = nil
	s.ids = nil
	return nil
}
