package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/coordinator"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// beginFetch issues a request for the coordinator's current parameters.
func (m *Model) beginFetch() tea.Cmd {
	req := m.coord.Begin()
	m.syncList()
	return m.fetch(req)
}

// fetch loads one page, retrying transient failures.
func (m Model) fetch(req coordinator.Request) tea.Cmd {
	ctx, api, retry := m.ctx, m.api, m.retry
	return func() tea.Msg {
		var page model.Page
		err := common.WithRetry(ctx, func() error {
			p, err := api.FetchTransactions(ctx, req.Filters)
			if err != nil {
				return err
			}
			page = p
			return nil
		}, retry)
		return transactionsFetchedMsg{req: req, page: page, err: err}
	}
}

// create submits a new transaction.
func (m Model) create(data model.CreateTransactionData) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		txn, err := api.CreateTransaction(ctx, data)
		return transactionCreatedMsg{txn: txn, err: err}
	}
}

// debounceSearch delivers the generation once the search input has been
// idle for the debounce interval.
func (m Model) debounceSearch(gen int) tea.Cmd {
	return m.after(coordinator.DebounceInterval, searchSettledMsg{gen: gen})
}

// showToast displays text and schedules its removal.
func (m *Model) showToast(text string, isErr bool) tea.Cmd {
	m.toastID++
	m.toast = text
	m.toastErr = isErr
	return m.after(ToastDuration, toastExpiredMsg{id: m.toastID})
}
