package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rholibobo/transaction-dashboard/internal/tui/themes"
)

var testTheme = themes.Default

// collect runs cmd and flattens any batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
