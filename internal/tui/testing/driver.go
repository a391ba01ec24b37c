// Package testing provides test utilities for TUI components.
package testing

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TimerMsg is produced by Driver.After in place of a real tick. The driver
// holds it back until FireTimers is called.
type TimerMsg struct {
	Msg   tea.Msg
	Delay time.Duration
}

// Driver runs a Bubble Tea model synchronously. Commands are executed
// immediately and their messages fed back into the model, except timers
// created through After, which wait for FireTimers.
type Driver struct {
	Model    tea.Model
	Messages []tea.Msg
	timers   []TimerMsg
	Quit     bool
}

// NewDriver wraps model and runs its Init command.
func NewDriver(model tea.Model) *Driver {
	d := &Driver{Model: model}
	d.run(model.Init())
	return d
}

// After is a drop-in replacement for a tea.Tick based delay.
func (d *Driver) After(delay time.Duration, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return TimerMsg{Delay: delay, Msg: msg}
	}
}

// Send delivers msgs to the model in order, draining resulting commands.
func (d *Driver) Send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		d.deliver(msg)
	}
}

// Type sends one key press per rune of text.
func (d *Driver) Type(text string) {
	d.Send(Typed(text)...)
}

// PendingTimers reports how many timers are waiting.
func (d *Driver) PendingTimers() int {
	return len(d.timers)
}

// FireTimers delivers every waiting timer message in creation order.
func (d *Driver) FireTimers() {
	timers := d.timers
	d.timers = nil
	for _, t := range timers {
		d.deliver(t.Msg)
	}
}

// View renders the model with ANSI codes removed.
func (d *Driver) View() string {
	return StripANSI(d.Model.View())
}

func (d *Driver) deliver(msg tea.Msg) {
	d.Messages = append(d.Messages, msg)
	model, cmd := d.Model.Update(msg)
	d.Model = model
	d.run(cmd)
}

func (d *Driver) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			d.run(c)
		}
	case TimerMsg:
		d.timers = append(d.timers, msg)
	case tea.QuitMsg:
		d.Quit = true
	default:
		d.deliver(msg)
	}
}
