// Package themes defines the dashboard color schemes.
package themes

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	RoundedBox    lipgloss.Style
	ActiveTab     lipgloss.Style
	InactiveTab   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// palette holds the colors a theme is derived from.
type palette struct {
	primary, secondary, success, warning, danger, info lipgloss.Color
	background, foreground, subtle, border, muted, code lipgloss.Color
}

func newTheme(p palette) Theme {
	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.danger,
		Info:       p.info,
		Background: p.background,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.foreground).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.code).
			Foreground(p.foreground),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			Underline(true).
			Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		StatusSuccess: badge.Foreground(p.success),
		StatusWarning: badge.Foreground(p.warning),
		StatusError:   badge.Foreground(p.danger),
		StatusInfo:    badge.Foreground(p.info),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    lipgloss.Color("#7c3aed"),
	secondary:  lipgloss.Color("#a78bfa"),
	success:    lipgloss.Color("#10b981"),
	warning:    lipgloss.Color("#f59e0b"),
	danger:     lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	background: lipgloss.Color("#1a1a1a"),
	foreground: lipgloss.Color("#fafafa"),
	subtle:     lipgloss.Color("#a3a3a3"),
	border:     lipgloss.Color("#404040"),
	muted:      lipgloss.Color("#737373"),
	code:       lipgloss.Color("#262626"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    lipgloss.Color("#cba6f7"),
	secondary:  lipgloss.Color("#f5c2e7"),
	success:    lipgloss.Color("#a6e3a1"),
	warning:    lipgloss.Color("#f9e2af"),
	danger:     lipgloss.Color("#f38ba8"),
	info:       lipgloss.Color("#89dceb"),
	background: lipgloss.Color("#1e1e2e"),
	foreground: lipgloss.Color("#cdd6f4"),
	subtle:     lipgloss.Color("#a6adc8"),
	border:     lipgloss.Color("#45475a"),
	muted:      lipgloss.Color("#6c7086"),
	code:       lipgloss.Color("#313244"),
})

// Names lists the selectable theme names.
var Names = []string{"default", "catppuccin-mocha"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// StatusBadge returns the badge style for a transaction status.
func (t Theme) StatusBadge(status model.Status) lipgloss.Style {
	switch status {
	case model.StatusCompleted:
		return t.StatusSuccess
	case model.StatusPending:
		return t.StatusWarning
	case model.StatusFailed:
		return t.StatusError
	default:
		return t.StatusPending
	}
}
