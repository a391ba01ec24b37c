package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rholibobo/transaction-dashboard/internal/service"
	"github.com/rholibobo/transaction-dashboard/internal/tui/themes"
)

// ToastDuration is how long a create notification stays visible.
const ToastDuration = 3 * time.Second

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	API      service.TransactionAPI
	Location *time.Location
	Now      func() time.Time
	// After schedules msg to be delivered once delay has elapsed.
	After    func(delay time.Duration, msg tea.Msg) tea.Cmd
	LogFile  string
	Retry    service.RetryOptions
	Width    int
	Height   int
	LogLevel slog.Level
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Location: time.Local,
		Now:      time.Now,
		After:    tick,
		Width:    100,
		Height:   30,
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2,
		},
	}
}

func tick(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg { return msg })
}

// WithAPI sets the transaction API the dashboard queries.
func WithAPI(api service.TransactionAPI) Option {
	return func(c *Config) {
		c.API = api
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithLocation sets the zone dates are displayed and entered in.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		if loc != nil {
			c.Location = loc
		}
	}
}

// WithClock replaces time.Now for form defaults and validation.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithAfter replaces the timer used for search debouncing and toasts.
func WithAfter(after func(time.Duration, tea.Msg) tea.Cmd) Option {
	return func(c *Config) {
		if after != nil {
			c.After = after
		}
	}
}

// WithRetry configures how failed fetches are retried.
func WithRetry(opts service.RetryOptions) Option {
	return func(c *Config) {
		c.Retry = opts
	}
}

// WithLogFile sends log output to path while the dashboard owns the terminal.
func WithLogFile(path string, level slog.Level) Option {
	return func(c *Config) {
		c.LogFile = path
		c.LogLevel = level
	}
}
