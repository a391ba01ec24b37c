package storage

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/rholibobo/transaction-dashboard/internal/model"
)

//go:embed seed.json
var seedJSON []byte

// SeedTransactions returns the built-in sample dataset in display order.
func SeedTransactions() ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := json.Unmarshal(seedJSON, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return txns, nil
}
