package model

import (
	"fmt"
	"strings"
	"time"
)

// SortField represents a field transactions can be sorted on.
type SortField string

// Sortable fields.
const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
	SortByStatus SortField = "status"
	SortByID     SortField = "id"
)

// SortDirection represents sort order.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortOptions holds sorting preferences.
type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSortOptions returns the default sort (date descending, newest first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field:     SortByDate,
		Direction: SortDesc,
	}
}

// DateRange bounds a query by transaction date. Either bound may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return boundAbsent(r.From) && boundAbsent(r.To)
}

// Equal reports whether both ranges resolve to the same bounds.
func (r DateRange) Equal(other DateRange) bool {
	return boundEqual(r.From, other.From) && boundEqual(r.To, other.To)
}

func boundAbsent(t *time.Time) bool {
	return t == nil || t.IsZero()
}

func boundEqual(a, b *time.Time) bool {
	if boundAbsent(a) || boundAbsent(b) {
		return boundAbsent(a) == boundAbsent(b)
	}
	return a.Equal(*b)
}

var dateBoundLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateBound parses a date range bound. Unparseable input yields nil, which
// callers treat as an absent bound rather than an error. Dates without a zone
// are interpreted in loc.
func ParseDateBound(s string, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateBoundLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}
	return nil
}

// Filters is the full set of filter, sort and page parameters for one query.
type Filters struct {
	DateRange     DateRange
	SearchQuery   string
	StatusFilter  Status
	SortBy        SortField
	SortDirection SortDirection
	Page          int
}

// Key returns a canonical representation of the filters. Two filter values
// with equal keys produce identical query results over the same set.
func (f Filters) Key() string {
	status := f.StatusFilter
	if status == "" {
		status = StatusAll
	}
	return fmt.Sprintf("page=%d|q=%s|status=%s|from=%s|to=%s|sort=%s:%s",
		f.Page,
		f.SearchQuery,
		status,
		formatBound(f.DateRange.From),
		formatBound(f.DateRange.To),
		f.SortBy,
		f.SortDirection,
	)
}

func formatBound(t *time.Time) string {
	if boundAbsent(t) {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// Page is one page of query results plus pagination metadata.
type Page struct {
	Transactions []Transaction `json:"transactions"`
	TotalPages   int           `json:"totalPages"`
	CurrentPage  int           `json:"currentPage"`
	TotalItems   int           `json:"totalItems"`
}
