package components

import "github.com/rholibobo/transaction-dashboard/internal/model"

// SearchInputMsg reports raw search text as the user types.
type SearchInputMsg struct {
	Text string
}

// StatusSelectedMsg reports a new status filter.
type StatusSelectedMsg struct {
	Status model.Status
}

// DateRangeSelectedMsg reports the date range inputs. Unparseable bounds are
// absent.
type DateRangeSelectedMsg struct {
	Range model.DateRange
}

// SubmitTransactionMsg carries form data that passed validation.
type SubmitTransactionMsg struct {
	Data model.CreateTransactionData
}
