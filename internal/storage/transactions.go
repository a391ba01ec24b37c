package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

const dateLayout = time.RFC3339Nano

// Snapshot returns every transaction, newest insertion first.
func (s *SQLiteStorage) Snapshot(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, status, date
		FROM transactions
		ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// Prepend inserts txn as the newest transaction.
func (s *SQLiteStorage) Prepend(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	return s.insert(ctx, s.db, txn)
}

// Count returns the number of stored transactions.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// Seed loads txns into an empty database so that Snapshot returns them in the
// given order. A database that already holds transactions is left untouched.
// It reports the number of inserted rows.
func (s *SQLiteStorage) Seed(ctx context.Context, txns []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		slog.Debug("Database already populated, skipping seed", "transactions", count)
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Insert oldest-displayed first so the first element ends up newest.
	for i := len(txns) - 1; i >= 0; i-- {
		if err := validateTransaction(txns[i]); err != nil {
			return 0, fmt.Errorf("transaction at index %d: %w", i, err)
		}
		if err := s.insert(ctx, tx, txns[i]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return len(txns), nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStorage) insert(ctx context.Context, db execer, txn model.Transaction) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, status, date)
		VALUES (?, ?, ?, ?)
	`,
		txn.ID,
		txn.Amount,
		string(txn.Status),
		txn.Date.UTC().Format(dateLayout),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, txn.ID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var (
		txn    model.Transaction
		status string
		date   string
	)
	if err := row.Scan(&txn.ID, &txn.Amount, &status, &date); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: transaction %s has date %q", common.ErrDatabaseCorrupted, txn.ID, date)
	}

	txn.Status = model.Status(status)
	txn.Date = parsed
	return txn, nil
}
