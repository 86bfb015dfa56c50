package listing

import (
	"time"

	"github.com/garyjia/expense-dashboard/internal/domain/entity"
)

// Filter names shared by the list screens
const (
	FilterDateRange = "date_range"
	FilterDate      = "date"
	FilterType      = "type"
	FilterVerified  = "verified"
	FilterRefunded  = "refunded"
	FilterUser      = "user"
	FilterSearch    = "search"
)

// ExpenseFilter is the transient filter form of the expense screens.
// Zero fields are inactive.
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Type     string
	Verified *bool
	Refunded *bool
	User     string
	Search   string
}

// Predicates builds one predicate per active field
func (f ExpenseFilter) Predicates() map[string]Predicate[entity.Expense] {
	ps := make(map[string]Predicate[entity.Expense])
	if f.From != nil || f.To != nil {
		ps[FilterDateRange] = DateRange(func(e entity.Expense) time.Time { return e.Date.Time }, f.From, f.To)
	}
	if f.Type != "" {
		ps[FilterType] = EqualFold(func(e entity.Expense) string { return e.Type }, f.Type)
	}
	if f.Verified != nil {
		ps[FilterVerified] = Flag(func(e entity.Expense) bool { return e.Verified }, *f.Verified)
	}
	if f.Refunded != nil {
		ps[FilterRefunded] = Flag(func(e entity.Expense) bool { return e.Refunded }, *f.Refunded)
	}
	if f.User != "" {
		ps[FilterUser] = EqualFold(func(e entity.Expense) string { return e.User }, f.User)
	}
	if f.Search != "" {
		ps[FilterSearch] = Contains(func(e entity.Expense) string { return e.Description }, f.Search)
	}
	return ps
}

// GroupedFilter is the filter form of the grouped orders screen
type GroupedFilter struct {
	Type     string
	Date     string
	Verified *bool
}

// Predicates builds one predicate per active field
func (f GroupedFilter) Predicates() map[string]Predicate[entity.GroupedRow] {
	ps := make(map[string]Predicate[entity.GroupedRow])
	if f.Type != "" {
		ps[FilterType] = EqualFold(func(r entity.GroupedRow) string { return r.Type }, f.Type)
	}
	if f.Date != "" {
		ps[FilterDate] = Equals(func(r entity.GroupedRow) string { return r.Date }, f.Date)
	}
	if f.Verified != nil {
		ps[FilterVerified] = Flag(func(r entity.GroupedRow) bool { return r.Verified }, *f.Verified)
	}
	return ps
}

// ItemFilter is the filter form of the item catalog screen
type ItemFilter struct {
	Name string
}

// Predicates builds one predicate per active field
func (f ItemFilter) Predicates() map[string]Predicate[entity.Item] {
	ps := make(map[string]Predicate[entity.Item])
	if f.Name != "" {
		ps[FilterSearch] = Contains(func(i entity.Item) string { return i.Name }, f.Name)
	}
	return ps
}

// BoolPtr is a helper for optional flag filters
func BoolPtr(v bool) *bool {
	return &v
}

// TimePtr is a helper for optional date bounds
func TimePtr(t time.Time) *time.Time {
	return &t
}
