// Package coordinator owns the dashboard's query parameters and decides which
// fetch results are shown. It has no UI dependency: callers feed it user
// intents and fetch outcomes, and it reports what to display.
//
// A Coordinator is not safe for concurrent use. The dashboard drives it from
// a single event loop and runs fetches elsewhere, handing results back
// through Resolve and Fail.
package coordinator

import (
	"log/slog"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// DebounceInterval is how long search input must stay unchanged before it is
// committed to the query.
const DebounceInterval = 500 * time.Millisecond

// Request identifies one fetch issued for a specific set of parameters.
type Request struct {
	Filters model.Filters
	Seq     uint64
}

// Coordinator tracks the committed query parameters, the raw search input and
// the last applied result.
type Coordinator struct {
	err         error
	result      *model.Page
	filters     model.Filters
	searchInput string
	searchGen   int
	seq         uint64
	loading     bool
}

// New returns a coordinator on page 1 with no filters, sorted by date
// descending.
func New() *Coordinator {
	sort := model.DefaultSortOptions()
	return &Coordinator{
		filters: model.Filters{
			StatusFilter:  model.StatusAll,
			SortBy:        sort.Field,
			SortDirection: sort.Direction,
			Page:          1,
		},
	}
}

// Filters returns the committed query parameters.
func (c *Coordinator) Filters() model.Filters {
	return c.filters
}

// SearchInput returns the raw, possibly uncommitted, search text.
func (c *Coordinator) SearchInput() string {
	return c.searchInput
}

// TypeSearch records raw search input and returns its debounce generation.
// The caller should pass the generation to SettleSearch once
// DebounceInterval has elapsed.
func (c *Coordinator) TypeSearch(text string) int {
	c.searchInput = text
	c.searchGen++
	return c.searchGen
}

// SettleSearch commits the raw search input if gen is still the newest
// generation. It reports whether the committed query changed.
func (c *Coordinator) SettleSearch(gen int) bool {
	if gen != c.searchGen {
		return false
	}
	if c.searchInput == c.filters.SearchQuery {
		return false
	}
	c.filters.SearchQuery = c.searchInput
	c.filters.Page = 1
	return true
}

// SetStatus changes the status filter. An empty status means all.
func (c *Coordinator) SetStatus(status model.Status) bool {
	if status == "" {
		status = model.StatusAll
	}
	if status == c.filters.StatusFilter {
		return false
	}
	c.filters.StatusFilter = status
	c.filters.Page = 1
	return true
}

// SetDateRange changes the date range. Ranges resolving to the same bounds
// are not a change.
func (c *Coordinator) SetDateRange(r model.DateRange) bool {
	if r.Equal(c.filters.DateRange) {
		return false
	}
	c.filters.DateRange = r
	c.filters.Page = 1
	return true
}

// Sort toggles the direction when field is already the sort field; otherwise
// it switches to field in descending order.
func (c *Coordinator) Sort(field model.SortField) bool {
	if field == c.filters.SortBy {
		c.filters.SortDirection = c.filters.SortDirection.Toggle()
	} else {
		c.filters.SortBy = field
		c.filters.SortDirection = model.SortDesc
	}
	c.filters.Page = 1
	return true
}

// SetPage moves to page n. Requests for the current page, a page below 1 or
// a page past the displayed result's last page are ignored.
func (c *Coordinator) SetPage(n int) bool {
	if n == c.filters.Page || n < 1 {
		return false
	}
	if c.result != nil && n > c.result.TotalPages {
		return false
	}
	c.filters.Page = n
	return true
}

// Begin issues a request for the committed parameters and marks the
// coordinator as loading.
func (c *Coordinator) Begin() Request {
	c.seq++
	c.loading = true
	return Request{Seq: c.seq, Filters: c.filters}
}

// Refresh issues a request for the committed parameters without waiting for
// pending search input to settle. It is used after a transaction is created.
func (c *Coordinator) Refresh() Request {
	slog.Debug("Refreshing transactions", "search", c.filters.SearchQuery)
	return c.Begin()
}

// Resolve applies page if req still matches the committed parameters. Results
// for parameters that have since changed are discarded.
func (c *Coordinator) Resolve(req Request, page model.Page) bool {
	if req.Filters.Key() != c.filters.Key() {
		slog.Debug("Discarding result for outdated parameters", "seq", req.Seq)
		return false
	}

	c.result = &page
	c.err = nil
	if req.Seq >= c.seq {
		c.loading = false
	}
	return true
}

// Fail records err for the newest request. The previous result stays
// displayed. Failures of superseded requests are ignored.
func (c *Coordinator) Fail(req Request, err error) bool {
	if req.Seq != c.seq {
		return false
	}
	c.err = err
	c.loading = false
	return true
}

// Err returns the error of the newest request, if it failed.
func (c *Coordinator) Err() error {
	return c.err
}

// Display returns the last applied result, nil before the first one, and
// whether a newer result is being loaded.
func (c *Coordinator) Display() (*model.Page, bool) {
	return c.result, c.loading
}
