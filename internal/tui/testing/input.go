package testing

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyPress creates a key press message for printable keys.
func KeyPress(key string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}

// Key creates a message for a special key such as tea.KeyEnter.
func Key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// WindowSize creates a window size message for testing responsive layouts.
func WindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	}
}

// Typed returns one key press per rune of text.
func Typed(text string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(text))
	for _, r := range text {
		msgs = append(msgs, tea.KeyMsg{
			Type:  tea.KeyRunes,
			Runes: []rune{r},
		})
	}
	return msgs
}
