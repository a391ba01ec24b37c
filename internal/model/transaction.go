package model

import (
	"fmt"
	"strconv"
	"time"
)

// Transaction represents a single financial transaction shown on the dashboard.
// Records are immutable once created.
type Transaction struct {
	Date   time.Time `json:"date"`
	ID     string    `json:"id"`
	Status Status    `json:"status"`
	Amount float64   `json:"amount"`
}

// Status is the settlement state of a transaction.
type Status string

// Transaction statuses.
const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"

	// StatusAll is only meaningful as a filter value.
	StatusAll Status = "all"
)

// Statuses lists the statuses a transaction can have, in display order.
var Statuses = []Status{StatusCompleted, StatusPending, StatusFailed}

// Valid reports whether s is a status a transaction can carry.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	default:
		return false
	}
}

// Label returns the capitalized form used by badges and dropdowns.
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusPending:
		return "Pending"
	case StatusFailed:
		return "Failed"
	case StatusAll, "":
		return "All"
	default:
		return string(s)
	}
}

// ParseStatus converts user input into a Status. The filter value "all" is
// accepted only when allowAll is set.
func ParseStatus(s string, allowAll bool) (Status, error) {
	status := Status(s)
	if status.Valid() {
		return status, nil
	}
	if allowAll && status == StatusAll {
		return status, nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// AmountString renders the amount in its shortest decimal form (1500, 750.5).
func (t Transaction) AmountString() string {
	return strconv.FormatFloat(t.Amount, 'f', -1, 64)
}

// CreateTransactionData carries the caller-supplied fields of a new transaction.
type CreateTransactionData struct {
	Date   time.Time `json:"date"`
	Status Status    `json:"status"`
	Amount float64   `json:"amount"`
}
