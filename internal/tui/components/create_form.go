package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/rholibobo/transaction-dashboard/internal/tui/themes"
)

// FormDateLayout is the date format accepted by the create form.
const FormDateLayout = "2006-01-02 15:04"

type formField int

const (
	formAmount formField = iota
	formStatus
	formDate
	formSubmit
	formFieldCount
)

// CreateFormModel collects the fields of a new transaction.
type CreateFormModel struct {
	theme      themes.Theme
	loc        *time.Location
	now        func() time.Time
	errs       model.ValidationErrors
	status     model.Status
	amount     textinput.Model
	date       textinput.Model
	focus      formField
	submitting bool
}

// NewCreateForm creates an empty form. now supplies the default date and the
// upper bound for date validation.
func NewCreateForm(theme themes.Theme, loc *time.Location, now func() time.Time) CreateFormModel {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}

	amount := textinput.New()
	amount.Placeholder = "0.00"
	amount.Prompt = ""
	amount.CharLimit = 16
	amount.Width = 16
	amount.Cursor.SetMode(cursor.CursorStatic)

	date := textinput.New()
	date.Placeholder = FormDateLayout
	date.Prompt = ""
	date.CharLimit = 20
	date.Width = 18
	date.Cursor.SetMode(cursor.CursorStatic)

	m := CreateFormModel{
		theme:  theme,
		loc:    loc,
		now:    now,
		amount: amount,
		date:   date,
	}
	m.Reset()
	return m
}

// Reset restores the defaults: no amount, completed, dated now.
func (m *CreateFormModel) Reset() {
	m.amount.SetValue("")
	m.status = model.StatusCompleted
	m.date.SetValue(m.now().In(m.loc).Format(FormDateLayout))
	m.errs = nil
	m.submitting = false
	m.setFocus(formAmount)
}

// SetSubmitting locks the form while a create is in flight.
func (m *CreateFormModel) SetSubmitting(submitting bool) {
	m.submitting = submitting
}

// Submitting reports whether a create is in flight.
func (m CreateFormModel) Submitting() bool {
	return m.submitting
}

// Errors returns the messages from the last failed submit.
func (m CreateFormModel) Errors() model.ValidationErrors {
	return m.errs
}

func (m *CreateFormModel) setFocus(field formField) {
	m.focus = field
	m.amount.Blur()
	m.date.Blur()
	switch field {
	case formAmount:
		m.amount.Focus()
	case formDate:
		m.date.Focus()
	}
}

// data reads the inputs. Unparseable values become zero and fail validation.
func (m CreateFormModel) data() model.CreateTransactionData {
	d := model.CreateTransactionData{Status: m.status}
	if amount, err := strconv.ParseFloat(strings.TrimSpace(m.amount.Value()), 64); err == nil {
		d.Amount = amount
	}
	if date, err := time.ParseInLocation(FormDateLayout, strings.TrimSpace(m.date.Value()), m.loc); err == nil {
		d.Date = date
	}
	return d
}

func (m *CreateFormModel) submit() tea.Cmd {
	data := m.data()
	if err := data.Validate(m.now()); err != nil {
		m.errs, _ = model.AsValidationErrors(err)
		return nil
	}
	m.errs = nil
	m.submitting = true
	return func() tea.Msg {
		return SubmitTransactionMsg{Data: data}
	}
}

// Update handles key input.
func (m CreateFormModel) Update(msg tea.Msg) (CreateFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.submitting {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % formFieldCount)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + formFieldCount - 1) % formFieldCount)
		return m, nil
	case tea.KeyCtrlS:
		return m, m.submit()
	case tea.KeyEnter:
		if m.focus == formSubmit {
			return m, m.submit()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case formAmount:
		m.amount, cmd = m.amount.Update(msg)
	case formDate:
		m.date, cmd = m.date.Update(msg)
	case formStatus:
		switch keyMsg.String() {
		case " ", "space", "right", "l":
			m.status = nextStatus(m.status, false)
		case "left", "h":
			for i := 0; i < len(model.Statuses)-1; i++ {
				m.status = nextStatus(m.status, false)
			}
		}
	}
	return m, cmd
}

// View renders the form.
func (m CreateFormModel) View() string {
	label := lipgloss.NewStyle().Foreground(m.theme.Muted).Width(10)
	active := lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).Width(10)
	errStyle := m.theme.StatusError

	row := func(name string, field formField, body, errKey string) string {
		l := label
		if m.focus == field {
			l = active
		}
		line := l.Render(name) + body
		if msg := m.errs.Field(errKey); msg != "" {
			line = lipgloss.JoinVertical(lipgloss.Left, line, errStyle.Render("  "+msg))
		}
		return line
	}

	status := m.theme.StatusBadge(m.status).Render("‹ " + m.status.Label() + " ›")

	button := "[ Create Transaction ]"
	if m.submitting {
		button = "[ Creating... ]"
	}
	if m.focus == formSubmit {
		button = m.theme.Highlighted.Render(button)
	}

	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Create Transaction"),
		"",
		row("Amount", formAmount, "$ "+m.amount.View(), "amount"),
		row("Status", formStatus, status, "status"),
		row("Date", formDate, m.date.View(), "date"),
		"",
		button,
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("tab next field · space change status · ctrl+s submit"),
	))
}
