package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rholibobo/transaction-dashboard/internal/coordinator"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/service"
	"github.com/rholibobo/transaction-dashboard/internal/tui/components"
	"github.com/rholibobo/transaction-dashboard/internal/tui/themes"
)

// Tab identifies the visible dashboard tab.
type Tab int

const (
	TabTransactions Tab = iota
	TabCreate
)

// Model holds the main TUI state.
type Model struct {
	ctx      context.Context
	api      service.TransactionAPI
	coord    *coordinator.Coordinator
	now      func() time.Time
	after    func(time.Duration, tea.Msg) tea.Cmd
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	toast    string
	filters  components.FiltersModel
	list     components.TransactionListModel
	form     components.CreateFormModel
	retry    service.RetryOptions
	width    int
	height   int
	toastID  int
	tab      Tab
	toastErr bool
	showHelp bool
	quitting bool
}

// NewModel creates the dashboard model. The API must be set through WithAPI.
func NewModel(ctx context.Context, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(ctx, cfg)
}

func newModel(ctx context.Context, cfg Config) Model {
	m := Model{
		ctx:     ctx,
		api:     cfg.API,
		coord:   coordinator.New(),
		now:     cfg.Now,
		after:   cfg.After,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		filters: components.NewFilters(cfg.Theme, cfg.Location),
		list:    components.NewTransactionList(cfg.Theme, cfg.Location),
		form:    components.NewCreateForm(cfg.Theme, cfg.Location, cfg.Now),
		retry:   cfg.Retry,
	}
	m.resize(cfg.Width, cfg.Height)
	return m
}

// Coordinator exposes the query state.
func (m Model) Coordinator() *coordinator.Coordinator {
	return m.coord
}

// Tab returns the visible tab.
func (m Model) Tab() Tab {
	return m.tab
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return m.fetch(m.coord.Begin())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.SearchInputMsg:
		return m, m.debounceSearch(m.coord.TypeSearch(msg.Text))

	case searchSettledMsg:
		if m.coord.SettleSearch(msg.gen) {
			return m, m.beginFetch()
		}
		return m, nil

	case components.StatusSelectedMsg:
		if m.coord.SetStatus(msg.Status) {
			return m, m.beginFetch()
		}
		return m, nil

	case components.DateRangeSelectedMsg:
		if m.coord.SetDateRange(msg.Range) {
			return m, m.beginFetch()
		}
		return m, nil

	case transactionsFetchedMsg:
		if msg.err != nil {
			if m.coord.Fail(msg.req, msg.err) {
				slog.Error("Failed to fetch transactions", "error", msg.err)
			}
		} else {
			m.coord.Resolve(msg.req, msg.page)
		}
		m.syncList()
		return m, nil

	case components.SubmitTransactionMsg:
		m.form.SetSubmitting(true)
		return m, m.create(msg.Data)

	case transactionCreatedMsg:
		if msg.err != nil {
			slog.Error("Failed to create transaction", "error", msg.err)
			m.form.SetSubmitting(false)
			return m, m.showToast("Failed to create transaction", true)
		}
		m.form.Reset()
		toast := m.showToast("Transaction created successfully", false)
		req := m.coord.Refresh()
		m.syncList()
		return m, tea.Batch(toast, m.fetch(req))

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.tab == TabCreate {
		return m.handleCreateKey(msg)
	}

	if m.filters.Focused() {
		var cmd tea.Cmd
		m.filters, cmd = m.filters.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keymap.NextTab):
		m.tab = TabCreate
	case key.Matches(msg, m.keymap.Search):
		return m, m.filters.FocusSearch()
	case key.Matches(msg, m.keymap.Dates):
		return m, m.filters.FocusDates()
	case key.Matches(msg, m.keymap.Status):
		return m, m.filters.CycleStatus()
	case key.Matches(msg, m.keymap.SortDate):
		return m, m.sort(model.SortByDate)
	case key.Matches(msg, m.keymap.SortAmount):
		return m, m.sort(model.SortByAmount)
	case key.Matches(msg, m.keymap.SortStatus):
		return m, m.sort(model.SortByStatus)
	case key.Matches(msg, m.keymap.SortID):
		return m, m.sort(model.SortByID)
	case key.Matches(msg, m.keymap.PrevPage):
		return m, m.setPage(m.coord.Filters().Page - 1)
	case key.Matches(msg, m.keymap.NextPage):
		return m, m.setPage(m.coord.Filters().Page + 1)
	case key.Matches(msg, m.keymap.Refresh):
		req := m.coord.Refresh()
		m.syncList()
		return m, m.fetch(req)
	case key.Matches(msg, m.keymap.Up, m.keymap.Down):
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.NextTab, m.keymap.Back) {
		m.tab = TabTransactions
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m *Model) sort(field model.SortField) tea.Cmd {
	if !m.coord.Sort(field) {
		return nil
	}
	return m.beginFetch()
}

func (m *Model) setPage(n int) tea.Cmd {
	if !m.coord.SetPage(n) {
		return nil
	}
	return m.beginFetch()
}

// syncList copies the coordinator's display state into the table.
func (m *Model) syncList() {
	page, loading := m.coord.Display()
	m.list.SetData(page, loading, m.coord.Filters(), m.coord.Err())
}

// resize adjusts component sizes when terminal resizes.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	// Header, tabs, filter box, toast and help lines.
	m.list.Resize(width, max(height-11, 5))
}
