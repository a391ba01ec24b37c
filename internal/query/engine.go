// Package query implements the filter, sort and paginate pipeline behind the
// transaction list. Queries are pure: they never fail and never modify the
// transaction set they are given.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/model"
)

// DefaultPageSize is the number of transactions per page.
const DefaultPageSize = 10

// Engine runs queries over a transaction set.
type Engine struct {
	// Location is the calendar used to extend a "to" bound to the end of its day.
	Location *time.Location
	PageSize int
}

// New returns an engine with the default page size in the local time zone.
func New() Engine {
	return Engine{PageSize: DefaultPageSize, Location: time.Local}
}

// Run queries all with the default engine.
func Run(all []model.Transaction, f model.Filters) model.Page {
	return New().Run(all, f)
}

// Run filters, sorts and paginates all according to f. The input slice is
// never reordered or modified.
func (e Engine) Run(all []model.Transaction, f model.Filters) model.Page {
	pageSize := e.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	matched := make([]model.Transaction, 0, len(all))
	search := newSearchMatcher(f.SearchQuery)
	from, to := e.resolveRange(f.DateRange)

	for _, txn := range all {
		if !search.match(txn) {
			continue
		}
		if !matchStatus(txn, f.StatusFilter) {
			continue
		}
		if !inRange(txn.Date, from, to) {
			continue
		}
		matched = append(matched, txn)
	}

	sortTransactions(matched, f.SortBy, f.SortDirection)

	return paginate(matched, f.Page, pageSize)
}

// searchMatcher holds the normalized forms of a free-text query.
type searchMatcher struct {
	needles []string
}

// newSearchMatcher lower-cases the query and treats commas as decimal points.
// The comma-stripped form is kept as well so "1,500" finds an amount of 1500.
func newSearchMatcher(q string) searchMatcher {
	q = strings.ToLower(q)
	if q == "" {
		return searchMatcher{}
	}

	needles := []string{strings.ReplaceAll(q, ",", ".")}
	if strings.Contains(q, ",") {
		needles = append(needles, strings.ReplaceAll(q, ",", ""))
	}
	return searchMatcher{needles: needles}
}

func (s searchMatcher) match(txn model.Transaction) bool {
	if len(s.needles) == 0 {
		return true
	}

	haystacks := [...]string{
		strings.ToLower(txn.ID),
		txn.AmountString(),
	}
	for _, needle := range s.needles {
		for _, h := range haystacks {
			if strings.Contains(h, needle) {
				return true
			}
		}
	}
	return false
}

func matchStatus(txn model.Transaction, status model.Status) bool {
	if status == "" || status == model.StatusAll {
		return true
	}
	return txn.Status == status
}

// resolveRange converts the range into inclusive instants. Absent bounds come
// back nil; the "to" bound is moved to the last millisecond of its day.
func (e Engine) resolveRange(r model.DateRange) (from, to *time.Time) {
	loc := e.Location
	if loc == nil {
		loc = time.Local
	}

	if r.From != nil && !r.From.IsZero() {
		f := *r.From
		from = &f
	}
	if r.To != nil && !r.To.IsZero() {
		y, m, d := r.To.In(loc).Date()
		end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
		to = &end
	}
	return from, to
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// sortTransactions stable-sorts txns in place. Equal keys keep their relative
// order in both directions.
func sortTransactions(txns []model.Transaction, field model.SortField, dir model.SortDirection) {
	compare := comparator(field)

	sign := -1
	if dir == model.SortAsc {
		sign = 1
	}

	slices.SortStableFunc(txns, func(a, b model.Transaction) int {
		return sign * compare(a, b)
	})
}

func comparator(field model.SortField) func(a, b model.Transaction) int {
	switch field {
	case model.SortByAmount:
		return func(a, b model.Transaction) int { return cmp.Compare(a.Amount, b.Amount) }
	case model.SortByStatus:
		return func(a, b model.Transaction) int { return strings.Compare(string(a.Status), string(b.Status)) }
	case model.SortByID:
		return func(a, b model.Transaction) int { return strings.Compare(a.ID, b.ID) }
	default:
		return func(a, b model.Transaction) int { return a.Date.Compare(b.Date) }
	}
}

// paginate clamps page into [1, totalPages] and returns that slice of txns.
func paginate(txns []model.Transaction, page, pageSize int) model.Page {
	total := len(txns)
	totalPages := max(1, (total+pageSize-1)/pageSize)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	items := make([]model.Transaction, 0, end-start)
	items = append(items, txns[start:end]...)

	return model.Page{
		Transactions: items,
		TotalPages:   totalPages,
		CurrentPage:  page,
		TotalItems:   total,
	}
}
