package components

import (
	"errors"
	"testing"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/model"
	tuitest "github.com/rholibobo/transaction-dashboard/internal/tui/testing"
	"github.com/stretchr/testify/assert"
)

func listPage() *model.Page {
	return &model.Page{
		Transactions: []model.Transaction{
			{ID: "TX-ABCD1234", Amount: 1500, Status: model.StatusCompleted, Date: time.Date(2023, 5, 15, 10, 30, 0, 0, time.UTC)},
			{ID: "TX-EFGH5678", Amount: 750.5, Status: model.StatusPending, Date: time.Date(2023, 5, 14, 15, 45, 0, 0, time.UTC)},
		},
		CurrentPage: 2,
		TotalPages:  12,
		TotalItems:  115,
	}
}

func defaultFilters() model.Filters {
	return model.Filters{Page: 1, StatusFilter: model.StatusAll, SortBy: model.SortByDate, SortDirection: model.SortDesc}
}

func TestTransactionList_States(t *testing.T) {
	tests := []struct {
		page    *model.Page
		err     error
		name    string
		want    []string
		absent  []string
		loading bool
	}{
		{
			name:    "initial load",
			loading: true,
			want:    []string{"Loading transactions..."},
		},
		{
			name: "initial failure",
			err:  errors.New("connection reset"),
			want: []string{"Failed to load transactions: connection reset"},
		},
		{
			name:   "rows",
			page:   listPage(),
			want:   []string{"TX-ABCD1234", "$1,500.00", "Completed", "May 15, 2023 10:30", "TX-EFGH5678", "$750.50", "Pending", "Page 2 of 12 · 115 transactions"},
			absent: []string{"updating", "Loading"},
		},
		{
			name:    "stale rows while refreshing",
			page:    listPage(),
			loading: true,
			want:    []string{"TX-ABCD1234", "Page 2 of 12 · 115 transactions · ⟳ updating"},
		},
		{
			name: "refresh failure keeps rows",
			page: listPage(),
			err:  errors.New("timeout"),
			want: []string{"TX-ABCD1234", "Failed to refresh: timeout"},
		},
		{
			name: "empty result",
			page: &model.Page{Transactions: []model.Transaction{}, CurrentPage: 1, TotalPages: 1},
			want: []string{"No transactions found", "Page 1 of 1 · 0 transactions"},
		},
		{
			name: "single result",
			page: &model.Page{Transactions: listPage().Transactions[:1], CurrentPage: 1, TotalPages: 1, TotalItems: 1},
			want: []string{"1 transaction"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewTransactionList(testTheme, time.UTC)
			m.Resize(100, 20)
			m.SetData(tt.page, tt.loading, defaultFilters(), tt.err)

			view := tuitest.StripANSI(m.View())
			for _, want := range tt.want {
				assert.Contains(t, view, want)
			}
			for _, absent := range tt.absent {
				assert.NotContains(t, view, absent)
			}
		})
	}
}

func TestTransactionList_SortIndicator(t *testing.T) {
	m := NewTransactionList(testTheme, time.UTC)
	m.Resize(100, 20)

	m.SetData(listPage(), false, defaultFilters(), nil)
	assert.Contains(t, tuitest.StripANSI(m.View()), "Date ▼")

	f := defaultFilters()
	f.SortBy = model.SortByAmount
	f.SortDirection = model.SortAsc
	m.SetData(listPage(), false, f, nil)

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Amount ▲")
	assert.NotContains(t, view, "Date ▼")
}

func TestTransactionList_ColumnTitle(t *testing.T) {
	m := NewTransactionList(testTheme, time.UTC)
	assert.Equal(t, "Date ▼", m.columnTitle("Date", model.SortByDate), "date is the default sort")
	assert.Equal(t, "ID", m.columnTitle("ID", model.SortByID))
}
