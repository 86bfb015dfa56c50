// Package listing is the fetch-filter-paginate abstraction shared by every
// list screen: rows in, named predicates applied as a conjunction, one page out.
package listing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// DefaultPageSize is the page size of every list screen
const DefaultPageSize = 10

// ErrPageOutOfRange is returned by SetPage for a page outside 1..TotalPages
var ErrPageOutOfRange = errors.New("page out of range")

// Predicate reports whether a row is retained
type Predicate[T any] func(T) bool

// Page is one slice of the filtered rows
type Page[T any] struct {
	Rows       []T
	Number     int
	TotalPages int
	TotalRows  int
	Empty      bool
}

// List holds server rows plus the active filters and the current page
type List[T any] struct {
	mu         sync.RWMutex
	rows       []T
	predicates map[string]Predicate[T]
	pageSize   int
	page       int
}

// New creates an empty list. A non-positive size means DefaultPageSize.
func New[T any](pageSize int) *List[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &List[T]{
		predicates: make(map[string]Predicate[T]),
		pageSize:   pageSize,
		page:       1,
	}
}

// SetRows replaces the raw rows. The current page is kept when still valid.
func (l *List[T]) SetRows(rows []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append([]T(nil), rows...)
	l.clampLocked()
}

// Rows returns a copy of the unfiltered rows
func (l *List[T]) Rows() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.rows...)
}

// SetFilter installs or replaces a named predicate and resets to page 1.
// A nil predicate removes the filter.
func (l *List[T]) SetFilter(name string, p Predicate[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p == nil {
		delete(l.predicates, name)
	} else {
		l.predicates[name] = p
	}
	l.page = 1
}

// ClearFilter removes a named predicate and resets to page 1
func (l *List[T]) ClearFilter(name string) {
	l.SetFilter(name, nil)
}

// ReplaceFilters swaps the whole predicate set and resets to page 1
func (l *List[T]) ReplaceFilters(predicates map[string]Predicate[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.predicates = make(map[string]Predicate[T], len(predicates))
	for name, p := range predicates {
		if p != nil {
			l.predicates[name] = p
		}
	}
	l.page = 1
}

// Filters returns the active filter names, sorted
func (l *List[T]) Filters() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.predicates))
	for name := range l.predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filtered returns every row that satisfies all active predicates
func (l *List[T]) Filtered() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filteredLocked()
}

// SetPage moves to page n of the filtered rows
func (l *List[T]) SetPage(n int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := TotalPages(len(l.filteredLocked()), l.pageSize)
	if n < 1 || (total > 0 && n > total) || (total == 0 && n != 1) {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, total)
	}
	l.page = n
	return nil
}

// CurrentPage returns the current page number
func (l *List[T]) CurrentPage() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.page
}

// PageSize returns the configured page size
func (l *List[T]) PageSize() int {
	return l.pageSize
}

// Page returns the current page of the filtered rows
func (l *List[T]) Page() Page[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Paginate(l.filteredLocked(), l.page, l.pageSize)
}

func (l *List[T]) filteredLocked() []T {
	out := make([]T, 0, len(l.rows))
	for _, row := range l.rows {
		if l.matchesLocked(row) {
			out = append(out, row)
		}
	}
	return out
}

func (l *List[T]) matchesLocked(row T) bool {
	for _, p := range l.predicates {
		if !p(row) {
			return false
		}
	}
	return true
}

func (l *List[T]) clampLocked() {
	total := TotalPages(len(l.filteredLocked()), l.pageSize)
	if l.page > total {
		l.page = total
	}
	if l.page < 1 {
		l.page = 1
	}
}

// TotalPages is ceil(n / size); zero rows means zero pages
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate slices rows into page number (1-based) of the given size
func Paginate[T any](rows []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(rows), size)
	page := Page[T]{
		Number:     number,
		TotalPages: total,
		TotalRows:  len(rows),
		Empty:      len(rows) == 0,
	}
	if number < 1 || number > total {
		return page
	}

	start := (number - 1) * size
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	page.Rows = append([]T(nil), rows[start:end]...)
	return page
}
