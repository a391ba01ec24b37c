package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/tui/themes"
)

// filterField identifies the focused filter input.
type filterField int

const (
	fieldNone filterField = iota
	fieldSearch
	fieldFrom
	fieldTo
)

// FiltersModel holds the search box, status selector and date range inputs.
// Inputs only take keys while focused.
type FiltersModel struct {
	theme  themes.Theme
	loc    *time.Location
	status model.Status
	search textinput.Model
	from   textinput.Model
	to     textinput.Model
	focus  filterField
}

// NewFilters creates the filter bar. Dates typed without a zone are read in loc.
func NewFilters(theme themes.Theme, loc *time.Location) FiltersModel {
	search := textinput.New()
	search.Placeholder = "Search by ID or amount..."
	search.Prompt = ""
	search.CharLimit = 64
	search.Width = 28
	search.Cursor.SetMode(cursor.CursorStatic)

	newDate := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Prompt = ""
		in.CharLimit = 16
		in.Width = 12
		in.Cursor.SetMode(cursor.CursorStatic)
		return in
	}

	if loc == nil {
		loc = time.Local
	}

	return FiltersModel{
		theme:  theme,
		loc:    loc,
		status: model.StatusAll,
		search: search,
		from:   newDate("YYYY-MM-DD"),
		to:     newDate("YYYY-MM-DD"),
	}
}

// Focused reports whether an input is capturing keys.
func (m FiltersModel) Focused() bool {
	return m.focus != fieldNone
}

// Status returns the selected status filter.
func (m FiltersModel) Status() model.Status {
	return m.status
}

// SearchValue returns the raw search text.
func (m FiltersModel) SearchValue() string {
	return m.search.Value()
}

// FocusSearch moves key input to the search box.
func (m *FiltersModel) FocusSearch() tea.Cmd {
	return m.setFocus(fieldSearch)
}

// FocusDates moves key input to the "from" date input.
func (m *FiltersModel) FocusDates() tea.Cmd {
	return m.setFocus(fieldFrom)
}

// Blur releases key input.
func (m *FiltersModel) Blur() {
	m.setFocus(fieldNone)
}

// CycleStatus selects the next status filter.
func (m *FiltersModel) CycleStatus() tea.Cmd {
	m.status = nextStatus(m.status, true)
	status := m.status
	return func() tea.Msg {
		return StatusSelectedMsg{Status: status}
	}
}

// DateRange parses the date inputs.
func (m FiltersModel) DateRange() model.DateRange {
	return model.DateRange{
		From: model.ParseDateBound(m.from.Value(), m.loc),
		To:   model.ParseDateBound(m.to.Value(), m.loc),
	}
}

func (m *FiltersModel) setFocus(field filterField) tea.Cmd {
	m.focus = field
	m.search.Blur()
	m.from.Blur()
	m.to.Blur()

	switch field {
	case fieldSearch:
		return m.search.Focus()
	case fieldFrom:
		return m.from.Focus()
	case fieldTo:
		return m.to.Focus()
	default:
		return nil
	}
}

// Update handles key input for the focused field.
func (m FiltersModel) Update(msg tea.Msg) (FiltersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.focus == fieldNone {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.Blur()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		switch m.focus {
		case fieldFrom:
			return m, m.setFocus(fieldTo)
		case fieldTo:
			return m, m.setFocus(fieldFrom)
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if text := m.search.Value(); text != before {
			return m, tea.Batch(cmd, func() tea.Msg { return SearchInputMsg{Text: text} })
		}
	case fieldFrom, fieldTo:
		before := m.from.Value() + "|" + m.to.Value()
		if m.focus == fieldFrom {
			m.from, cmd = m.from.Update(msg)
		} else {
			m.to, cmd = m.to.Update(msg)
		}
		if m.from.Value()+"|"+m.to.Value() != before {
			r := m.DateRange()
			return m, tea.Batch(cmd, func() tea.Msg { return DateRangeSelectedMsg{Range: r} })
		}
	}
	return m, cmd
}

// View renders the filter bar.
func (m FiltersModel) View() string {
	label := lipgloss.NewStyle().Foreground(m.theme.Muted)
	active := lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true)

	field := func(name string, focused bool, body string) string {
		if focused {
			return active.Render(name+":") + " " + body
		}
		return label.Render(name+":") + " " + body
	}

	status := m.theme.StatusBadge(m.status).Render(m.status.Label())
	if m.status == model.StatusAll {
		status = m.theme.Bold.Render(m.status.Label())
	}

	parts := []string{
		field("Search", m.focus == fieldSearch, m.search.View()),
		field("Status", false, status),
		field("From", m.focus == fieldFrom, m.from.View()),
		field("To", m.focus == fieldTo, m.to.View()),
	}
	return m.theme.RoundedBox.Render(strings.Join(parts, "   "))
}
