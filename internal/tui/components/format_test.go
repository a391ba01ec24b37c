package components

import (
	"testing"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	date := time.Date(2023, 5, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "May 15, 2023 10:30", FormatDate(date, time.UTC))

	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "May 15, 2023 19:30", FormatDate(date, tokyo))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "● Completed", StatusLabel(model.StatusCompleted))
	assert.Equal(t, "◐ Pending", StatusLabel(model.StatusPending))
	assert.Equal(t, "✕ Failed", StatusLabel(model.StatusFailed))
	assert.Equal(t, "○ refunded", StatusLabel(model.Status("refunded")))
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, model.StatusCompleted, nextStatus(model.StatusAll, true))
	assert.Equal(t, model.StatusAll, nextStatus(model.StatusFailed, true))
	assert.Equal(t, model.StatusCompleted, nextStatus(model.StatusFailed, false))
	assert.Equal(t, model.StatusPending, nextStatus(model.StatusCompleted, false))
	assert.Equal(t, model.StatusCompleted, nextStatus(model.Status("bogus"), false))
}
