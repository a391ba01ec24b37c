package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.tab {
	case TabCreate:
		body = m.form.View()
	default:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.filters.View(),
			m.list.View(),
		)
	}

	sections := []string{
		m.renderHeader(),
		body,
	}
	if toast := m.renderToast(); toast != "" {
		sections = append(sections, toast)
	}
	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title and the tab bar.
func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Transaction Dashboard")

	names := []string{"Transactions", "Create Transaction"}
	tabs := make([]string, 0, len(names))
	for i, name := range names {
		if Tab(i) == m.tab {
			tabs = append(tabs, m.theme.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, m.theme.InactiveTab.Render(name))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

func (m Model) renderToast() string {
	if m.toast == "" {
		return ""
	}
	if m.toastErr {
		return m.theme.StatusError.Render("✕ " + m.toast)
	}
	return m.theme.StatusSuccess.Render("✓ " + m.toast)
}

func (m Model) renderHelp() string {
	if m.tab == TabCreate {
		hint := []string{"tab/esc back to list", "ctrl+c quit"}
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(strings.Join(hint, " · "))
	}
	return m.help.View(m.keymap)
}
