package tui

import (
	"github.com/rholibobo/transaction-dashboard/internal/coordinator"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// Data loading messages.
type transactionsFetchedMsg struct {
	err  error
	req  coordinator.Request
	page model.Page
}

type transactionCreatedMsg struct {
	err error
	txn model.Transaction
}

// Timer messages.
type searchSettledMsg struct {
	gen int
}

type toastExpiredMsg struct {
	id int
}
