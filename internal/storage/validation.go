// Package storage provides the transaction stores behind the dashboard.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction checks the fields a store needs to hold a record. Field
// values such as amount and status are the form layer's concern.
func validateTransaction(txn model.Transaction) error {
	if strings.TrimSpace(txn.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	return nil
}
