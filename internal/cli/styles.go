// Package cli provides styled terminal output for txdash commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

var (
	// PrimaryColor is the main brand color.
	PrimaryColor = lipgloss.Color("#7C3AED")
	// SuccessColor indicates successful operations and completed transactions.
	SuccessColor = lipgloss.Color("#22C55E")
	// WarningColor indicates warnings and pending transactions.
	WarningColor = lipgloss.Color("#EAB308")
	// ErrorColor indicates errors and failed transactions.
	ErrorColor = lipgloss.Color("#EF4444")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#38BDF8")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#6B7280")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				Padding(0, 1)

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	CardIcon    = "💳"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the card icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(CardIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// StatusStyle returns the color a status is printed in.
func StatusStyle(status model.Status) lipgloss.Style {
	switch status {
	case model.StatusCompleted:
		return SuccessStyle
	case model.StatusPending:
		return WarningStyle
	case model.StatusFailed:
		return ErrorStyle
	default:
		return SubtleStyle
	}
}
