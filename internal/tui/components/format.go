package components

import (
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/cli"
	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// FormatDate renders t in loc the same way the CLI prints dates.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(cli.DateLayout)
}

// StatusLabel renders a status with its marker.
func StatusLabel(status model.Status) string {
	switch status {
	case model.StatusCompleted:
		return "● " + status.Label()
	case model.StatusPending:
		return "◐ " + status.Label()
	case model.StatusFailed:
		return "✕ " + status.Label()
	default:
		return "○ " + status.Label()
	}
}

// nextStatus cycles through the filter options: all, then each status.
func nextStatus(current model.Status, includeAll bool) model.Status {
	options := model.Statuses
	if includeAll {
		options = append([]model.Status{model.StatusAll}, model.Statuses...)
	}
	for i, s := range options {
		if s == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
