package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/rholibobo/transaction-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultListOptions() listOptions {
	return listOptions{
		page:      1,
		status:    "all",
		sortBy:    "date",
		direction: "desc",
		output:    "table",
	}
}

func TestBuildFilters(t *testing.T) {
	opts := defaultListOptions()
	opts.page = 2
	opts.search = "0002"
	opts.status = "Pending"
	opts.sortBy = "AMOUNT"
	opts.direction = "asc"
	opts.from = "2023-05-01"
	opts.to = "2023-05-31"

	filters, err := buildFilters(opts, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 2, filters.Page)
	assert.Equal(t, "0002", filters.SearchQuery)
	assert.Equal(t, model.StatusPending, filters.StatusFilter)
	assert.Equal(t, model.SortByAmount, filters.SortBy)
	assert.Equal(t, model.SortAsc, filters.SortDirection)
	require.NotNil(t, filters.DateRange.From)
	require.NotNil(t, filters.DateRange.To)
	assert.True(t, filters.DateRange.From.Equal(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, filters.DateRange.To.Equal(time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC)))
}

func TestBuildFilters_Invalid(t *testing.T) {
	tests := []struct {
		modify func(*listOptions)
		name   string
		want   string
	}{
		{name: "status", modify: func(o *listOptions) { o.status = "refunded" }, want: "Invalid --status"},
		{name: "sort", modify: func(o *listOptions) { o.sortBy = "payee" }, want: "Invalid --sort"},
		{name: "direction", modify: func(o *listOptions) { o.direction = "up" }, want: "Invalid --direction"},
		{name: "from", modify: func(o *listOptions) { o.from = "yesterday" }, want: "Invalid --from"},
		{name: "to", modify: func(o *listOptions) { o.to = "31/05/2023" }, want: "Invalid --to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultListOptions()
			tt.modify(&opts)

			_, err := buildFilters(opts, time.UTC)
			require.Error(t, err)

			var userErr *common.UserError
			require.ErrorAs(t, err, &userErr)
			assert.Contains(t, userErr.UserMessage, tt.want)
		})
	}
}

func TestListTransactions_Table(t *testing.T) {
	client, _ := newTestClient(t, fixtureTransactions()...)
	opts := defaultListOptions()

	filters, err := buildFilters(opts, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, listTransactions(context.Background(), client, filters, opts, time.UTC, &buf))

	out := stripANSI(buf.String())
	assert.Contains(t, out, "TX-MNOP3456")
	assert.Contains(t, out, "$1,500.00")
	assert.Contains(t, out, "Page 1 of 1")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("TX-MNOP3456")), bytes.Index(buf.Bytes(), []byte("TX-ABCD1234")),
		"newest first by default")
}

func TestListTransactions_Empty(t *testing.T) {
	client, _ := newTestClient(t, fixtureTransactions()...)
	opts := defaultListOptions()
	opts.search = "no such transaction"

	filters, err := buildFilters(opts, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, listTransactions(context.Background(), client, filters, opts, time.UTC, &buf))
	assert.Contains(t, stripANSI(buf.String()), "No transactions found")
}

func TestListTransactions_JSON(t *testing.T) {
	client, _ := newTestClient(t, fixtureTransactions()...)
	opts := defaultListOptions()
	opts.output = "json"
	opts.from = "2023-05-16"
	opts.to = "2023-05-17"

	filters, err := buildFilters(opts, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, listTransactions(context.Background(), client, filters, opts, time.UTC, &buf))

	var page model.Page
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Transactions, 2)
	assert.Equal(t, "TX-IJKL9012", page.Transactions[0].ID)
	assert.Equal(t, "TX-EFGH5678", page.Transactions[1].ID)
}

func TestListTransactions_JQ(t *testing.T) {
	client, _ := newTestClient(t, fixtureTransactions()...)

	tests := []struct {
		name   string
		filter string
		want   string
	}{
		{name: "ids", filter: "[.transactions[].id]", want: `["TX-MNOP3456","TX-IJKL9012","TX-EFGH5678","TX-ABCD1234"]`},
		{name: "total", filter: ".totalItems", want: "4"},
		{name: "stream", filter: `.transactions[] | select(.status == "completed") | .amount`, want: "15.25\n1500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultListOptions()
			opts.jq = tt.filter

			filters, err := buildFilters(opts, time.UTC)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, listTransactions(context.Background(), client, filters, opts, time.UTC, &buf))

			assert.Equal(t, tt.want, compactJSONStream(t, buf.Bytes()))
		})
	}
}

// compactJSONStream re-encodes a stream of indented JSON values one per line.
func compactJSONStream(t *testing.T, data []byte) string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(data))
	var lines []string
	for dec.More() {
		var v any
		require.NoError(t, dec.Decode(&v))
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		lines = append(lines, string(raw))
	}
	return strings.Join(lines, "\n")
}

func TestListTransactions_InvalidJQ(t *testing.T) {
	client, _ := newTestClient(t, fixtureTransactions()...)
	opts := defaultListOptions()
	opts.jq = ".transactions[" // unterminated

	err := listTransactions(context.Background(), client, model.Filters{Page: 1}, opts, time.UTC, &bytes.Buffer{})

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "Invalid jq filter")
}

func TestListTransactions_InvalidOutput(t *testing.T) {
	client, _ := newTestClient(t, fixtureTransactions()...)
	opts := defaultListOptions()
	opts.output = "yaml"

	err := listTransactions(context.Background(), client, model.Filters{Page: 1}, opts, time.UTC, &bytes.Buffer{})

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
}
