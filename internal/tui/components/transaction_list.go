package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rholibobo/transaction-dashboard/internal/cli"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/query"
	"github.com/rholibobo/transaction-dashboard/internal/tui/themes"
)

// TransactionListModel renders one page of query results as a table.
type TransactionListModel struct {
	theme   themes.Theme
	loc     *time.Location
	page    *model.Page
	err     error
	filters model.Filters
	table   table.Model
	width   int
	height  int
	loading bool
}

// NewTransactionList creates an empty transaction table.
func NewTransactionList(theme themes.Theme, loc *time.Location) TransactionListModel {
	if loc == nil {
		loc = time.Local
	}

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(query.DefaultPageSize+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = theme.Selected
	t.SetStyles(s)

	m := TransactionListModel{
		theme: theme,
		loc:   loc,
		table: t,
		width: 80,
	}
	m.updateColumns()
	return m
}

// SetData replaces the displayed page. page may be nil before the first
// result arrives; loading marks a newer result in flight.
func (m *TransactionListModel) SetData(page *model.Page, loading bool, filters model.Filters, err error) {
	m.page = page
	m.loading = loading
	m.err = err

	sortChanged := filters.SortBy != m.filters.SortBy || filters.SortDirection != m.filters.SortDirection
	m.filters = filters
	if sortChanged {
		m.updateColumns()
	}

	rows := make([]table.Row, 0)
	if page != nil {
		for _, txn := range page.Transactions {
			rows = append(rows, table.Row{
				txn.ID,
				cli.FormatAmount(txn.Amount),
				StatusLabel(txn.Status),
				FormatDate(txn.Date, m.loc),
			})
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Update moves the row cursor.
func (m TransactionListModel) Update(msg tea.Msg) (TransactionListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Resize adjusts the table to the available space.
func (m *TransactionListModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-4, 3))
	m.updateColumns()
}

// View renders the table with its pagination footer.
func (m TransactionListModel) View() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)

	if m.page == nil {
		if m.err != nil {
			return m.theme.StatusError.Render("Failed to load transactions: " + m.err.Error())
		}
		return muted.Render("⟳ Loading transactions...")
	}

	var body string
	if len(m.page.Transactions) == 0 {
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.table.View(),
			muted.Render("No transactions found"),
		)
	} else {
		body = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
}

func (m TransactionListModel) footer() string {
	noun := "transactions"
	if m.page.TotalItems == 1 {
		noun = "transaction"
	}
	parts := []string{
		fmt.Sprintf("Page %d of %d", m.page.CurrentPage, m.page.TotalPages),
		fmt.Sprintf("%d %s", m.page.TotalItems, noun),
	}
	if m.loading {
		parts = append(parts, "⟳ updating")
	}

	footer := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(strings.Join(parts, " · "))
	if m.err != nil {
		footer = lipgloss.JoinVertical(lipgloss.Left,
			footer,
			m.theme.StatusError.Render("Failed to refresh: "+m.err.Error()),
		)
	}
	return footer
}

func (m *TransactionListModel) updateColumns() {
	idWidth, amountWidth, statusWidth, dateWidth := 14, 16, 14, 20
	if extra := m.width - (idWidth + amountWidth + statusWidth + dateWidth + 8); extra > 0 {
		dateWidth += extra / 2
		amountWidth += extra - extra/2
	}

	m.table.SetColumns([]table.Column{
		{Title: m.columnTitle("ID", model.SortByID), Width: idWidth},
		{Title: m.columnTitle("Amount", model.SortByAmount), Width: amountWidth},
		{Title: m.columnTitle("Status", model.SortByStatus), Width: statusWidth},
		{Title: m.columnTitle("Date", model.SortByDate), Width: dateWidth},
	})
}

// columnTitle appends the sort arrow to the active column.
func (m TransactionListModel) columnTitle(title string, field model.SortField) string {
	active := m.filters.SortBy
	if active == "" {
		active = model.SortByDate
	}
	if field != active {
		return title
	}
	if m.filters.SortDirection == model.SortAsc {
		return title + " ▲"
	}
	return title + " ▼"
}
