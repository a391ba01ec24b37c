package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rholibobo/transaction-dashboard/internal/api"
	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/coordinator"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/query"
	"github.com/rholibobo/transaction-dashboard/internal/service"
	"github.com/rholibobo/transaction-dashboard/internal/testutil"
	tuitest "github.com/rholibobo/transaction-dashboard/internal/tui/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records calls and can fail before delegating to a real client.
type fakeAPI struct {
	client    *api.Client
	createErr error
	fetchErrs []error
	fetches   []model.Filters
	creates   []model.CreateTransactionData
}

func (f *fakeAPI) FetchTransactions(ctx context.Context, filters model.Filters) (model.Page, error) {
	f.fetches = append(f.fetches, filters)
	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		return model.Page{}, err
	}
	return f.client.FetchTransactions(ctx, filters)
}

func (f *fakeAPI) CreateTransaction(ctx context.Context, data model.CreateTransactionData) (model.Transaction, error) {
	f.creates = append(f.creates, data)
	if f.createErr != nil {
		return model.Transaction{}, f.createErr
	}
	return f.client.CreateTransaction(ctx, data)
}

var _ service.TransactionAPI = (*fakeAPI)(nil)

var clockNow = testutil.FixedNow.Add(time.Hour)

func newFakeAPI(t *testing.T, n int) *fakeAPI {
	t.Helper()
	store := testutil.SetupMemoryStore(t, testutil.NewTransactionBuilder().BuildN(n)...)
	return &fakeAPI{
		client: api.New(store,
			api.WithFetchLatency(0),
			api.WithCreateLatency(0),
			api.WithEngine(query.Engine{PageSize: query.DefaultPageSize, Location: time.UTC}),
		),
	}
}

func newDriver(t *testing.T, fake *fakeAPI) *tuitest.Driver {
	t.Helper()
	var d *tuitest.Driver
	after := func(delay time.Duration, msg tea.Msg) tea.Cmd {
		return d.After(delay, msg)
	}

	m := NewModel(context.Background(),
		WithAPI(fake),
		WithSize(120, 40),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return clockNow }),
		WithAfter(after),
		WithRetry(service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}),
	)
	d = tuitest.NewDriver(m)
	return d
}

func coord(d *tuitest.Driver) *coordinator.Coordinator {
	return d.Model.(Model).Coordinator()
}

func TestModel_InitialLoad(t *testing.T) {
	fake := newFakeAPI(t, 25)
	d := newDriver(t, fake)

	require.Len(t, fake.fetches, 1)
	assert.Equal(t, 1, fake.fetches[0].Page)

	view := d.View()
	assert.True(t, tuitest.ContainsInOrder(view,
		"Transaction Dashboard",
		"Transactions", "Create Transaction",
		"TX-TEST0001", "$100.00", "Completed", "Jun 15, 2024 12:00",
		"TX-TEST0002",
		"Page 1 of 3 · 25 transactions",
	), view)
	assert.NotContains(t, view, "TX-TEST0011")
}

func TestModel_SearchIsDebounced(t *testing.T) {
	fake := newFakeAPI(t, 25)
	d := newDriver(t, fake)

	d.Send(tuitest.KeyPress("/"))
	d.Type("0002")

	assert.Equal(t, "0002", coord(d).SearchInput())
	assert.Empty(t, coord(d).Filters().SearchQuery)
	assert.Equal(t, 4, d.PendingTimers())
	assert.Len(t, fake.fetches, 1, "typing does not fetch")

	d.FireTimers()
	require.Len(t, fake.fetches, 2, "only the newest input is fetched")
	assert.Equal(t, "0002", fake.fetches[1].SearchQuery)

	view := d.View()
	assert.Contains(t, view, "TX-TEST0002")
	assert.NotContains(t, view, "TX-TEST0001")
	assert.Contains(t, view, "Page 1 of 1 · 1 transaction")
}

func TestModel_FocusedSearchSwallowsShortcuts(t *testing.T) {
	fake := newFakeAPI(t, 5)
	d := newDriver(t, fake)

	d.Send(tuitest.KeyPress("/"))
	d.Type("qs")
	assert.False(t, d.Quit)
	assert.Equal(t, "qs", coord(d).SearchInput())
	assert.Equal(t, model.StatusAll, coord(d).Filters().StatusFilter)

	d.Send(tuitest.Key(tea.KeyEsc), tuitest.KeyPress("q"))
	assert.True(t, d.Quit)
}

func TestModel_StatusFilter(t *testing.T) {
	fake := newFakeAPI(t, 25)
	d := newDriver(t, fake)

	d.Send(tuitest.KeyPress("s"))
	assert.Equal(t, model.StatusCompleted, coord(d).Filters().StatusFilter)

	view := d.View()
	assert.Contains(t, view, "9 transactions")
	assert.NotContains(t, view, "Pending")
	assert.Contains(t, view, "TX-TEST0004")
}

func TestModel_DateRange(t *testing.T) {
	fake := newFakeAPI(t, 25)
	d := newDriver(t, fake)

	d.Send(tuitest.KeyPress("d"))
	d.Type("2024-06-10")
	d.Send(tuitest.Key(tea.KeyTab))
	d.Type("2024-06-12")
	d.Send(tuitest.Key(tea.KeyEnter))

	r := coord(d).Filters().DateRange
	require.NotNil(t, r.From)
	require.NotNil(t, r.To)

	// June 10 through the end of June 12.
	view := d.View()
	assert.Contains(t, view, "3 transactions")
	assert.True(t, tuitest.ContainsInOrder(view, "TX-TEST0004", "TX-TEST0005", "TX-TEST0006"))
}

func TestModel_Pagination(t *testing.T) {
	fake := newFakeAPI(t, 25)
	d := newDriver(t, fake)

	d.Send(tuitest.Key(tea.KeyRight))
	assert.Contains(t, d.View(), "Page 2 of 3")
	assert.Contains(t, d.View(), "TX-TEST0011")

	d.Send(tuitest.Key(tea.KeyRight), tuitest.Key(tea.KeyRight))
	assert.Equal(t, 3, coord(d).Filters().Page, "cannot move past the last page")

	fetches := len(fake.fetches)
	d.Send(tuitest.Key(tea.KeyLeft), tuitest.Key(tea.KeyLeft), tuitest.Key(tea.KeyLeft))
	assert.Equal(t, 1, coord(d).Filters().Page)
	assert.Len(t, fake.fetches, fetches+2)
}

func TestModel_SortResetsPage(t *testing.T) {
	fake := newFakeAPI(t, 25)
	d := newDriver(t, fake)

	d.Send(tuitest.Key(tea.KeyRight))
	require.Equal(t, 2, coord(d).Filters().Page)

	d.Send(tuitest.KeyPress("2"))
	f := coord(d).Filters()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, model.SortByAmount, f.SortBy)
	assert.Equal(t, model.SortDesc, f.SortDirection)
	assert.True(t, tuitest.ContainsInOrder(d.View(), "Amount ▼", "TX-TEST0025", "TX-TEST0024"))

	d.Send(tuitest.KeyPress("2"))
	assert.Equal(t, model.SortAsc, coord(d).Filters().SortDirection)
	assert.True(t, tuitest.ContainsInOrder(d.View(), "Amount ▲", "TX-TEST0001", "TX-TEST0002"))
}

func TestModel_DiscardsOutdatedResults(t *testing.T) {
	fake := newFakeAPI(t, 25)
	d := newDriver(t, fake)

	stale := coordinator.Request{Seq: 1, Filters: coord(d).Filters()}
	d.Send(tuitest.KeyPress("s"))

	d.Send(transactionsFetchedMsg{
		req:  stale,
		page: model.Page{Transactions: []model.Transaction{{ID: "TX-STALE001"}}, CurrentPage: 1, TotalPages: 1, TotalItems: 1},
	})
	assert.NotContains(t, d.View(), "TX-STALE001")
	assert.Contains(t, d.View(), "9 transactions")
}

func TestModel_FetchRetriesTransientFailures(t *testing.T) {
	fake := newFakeAPI(t, 5)
	fake.fetchErrs = []error{common.Transient(errors.New("store busy"))}

	d := newDriver(t, fake)
	assert.Len(t, fake.fetches, 2)
	assert.Contains(t, d.View(), "5 transactions")
}

func TestModel_FetchFailure(t *testing.T) {
	t.Run("initial load", func(t *testing.T) {
		fake := newFakeAPI(t, 5)
		fake.fetchErrs = []error{errors.New("boom")}

		d := newDriver(t, fake)
		assert.Len(t, fake.fetches, 1, "permanent errors are not retried")
		assert.Contains(t, d.View(), "Failed to load transactions: boom")
	})

	t.Run("refresh keeps previous rows", func(t *testing.T) {
		fake := newFakeAPI(t, 5)
		d := newDriver(t, fake)

		fake.fetchErrs = []error{errors.New("boom")}
		d.Send(tuitest.KeyPress("r"))

		view := d.View()
		assert.Contains(t, view, "TX-TEST0001")
		assert.Contains(t, view, "Failed to refresh: boom")

		d.Send(tuitest.KeyPress("r"))
		assert.NotContains(t, d.View(), "Failed to refresh")
	})
}

func TestModel_CreateTransaction(t *testing.T) {
	fake := newFakeAPI(t, 5)
	d := newDriver(t, fake)

	d.Send(tuitest.Key(tea.KeyTab))
	assert.Equal(t, TabCreate, d.Model.(Model).Tab())
	assert.Contains(t, d.View(), "Create Transaction")
	assert.Contains(t, d.View(), "2024-06-15 13:00")

	d.Type("42.50")
	d.Send(tuitest.Key(tea.KeyCtrlS))

	require.Len(t, fake.creates, 1)
	assert.Equal(t, 42.5, fake.creates[0].Amount)
	assert.Equal(t, model.StatusCompleted, fake.creates[0].Status)
	assert.True(t, fake.creates[0].Date.Equal(clockNow))

	assert.Contains(t, d.View(), "Transaction created successfully")
	assert.NotContains(t, d.View(), "42.50", "form resets after a create")
	assert.Len(t, fake.fetches, 2, "list refreshes after a create")
	assert.Equal(t, 1, d.PendingTimers())

	d.Send(tuitest.Key(tea.KeyEsc))
	view := d.View()
	assert.True(t, tuitest.ContainsInOrder(view, "$42.50", "TX-TEST0001"), view)
	assert.Contains(t, view, "6 transactions")

	d.FireTimers()
	assert.NotContains(t, d.View(), "Transaction created successfully")
}

func TestModel_CreateTransactionFailure(t *testing.T) {
	fake := newFakeAPI(t, 5)
	fake.createErr = errors.New("disk full")
	d := newDriver(t, fake)

	d.Send(tuitest.Key(tea.KeyTab))
	d.Type("10")
	d.Send(tuitest.Key(tea.KeyCtrlS))

	view := d.View()
	assert.Contains(t, view, "Failed to create transaction")
	assert.Contains(t, view, "$ 10", "form keeps its input")
	assert.Contains(t, view, "[ Create Transaction ]")
	assert.Len(t, fake.fetches, 1)
}

func TestModel_CreateValidation(t *testing.T) {
	fake := newFakeAPI(t, 5)
	d := newDriver(t, fake)

	d.Send(tuitest.Key(tea.KeyTab), tuitest.Key(tea.KeyCtrlS))
	assert.Empty(t, fake.creates)
	assert.Contains(t, d.View(), "Amount must be a positive number")

	d.Type("q")
	assert.False(t, d.Quit, "q is form input on the create tab")
}

func TestModel_ToastExpiryIgnoresOlderTimers(t *testing.T) {
	fake := newFakeAPI(t, 5)
	d := newDriver(t, fake)

	m := d.Model.(Model)
	m.showToast("first", false)
	m.showToast("second", false)
	d.Model = m

	d.Send(toastExpiredMsg{id: 1})
	assert.Contains(t, d.View(), "second")

	d.Send(toastExpiredMsg{id: 2})
	assert.NotContains(t, d.View(), "second")
}

func TestModel_HelpAndQuit(t *testing.T) {
	fake := newFakeAPI(t, 5)
	d := newDriver(t, fake)

	d.Send(tuitest.KeyPress("?"))
	assert.Contains(t, d.View(), "sort by amount")

	d.Send(tuitest.Key(tea.KeyCtrlC))
	assert.True(t, d.Quit)
	assert.Empty(t, d.View())
}

func TestRun_RequiresAPI(t *testing.T) {
	err := Run(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
