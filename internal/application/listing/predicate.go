package listing

import (
	"strings"
	"time"
)

// Equals retains rows whose field equals want
func Equals[T any, V comparable](field func(T) V, want V) Predicate[T] {
	return func(row T) bool {
		return field(row) == want
	}
}

// EqualFold retains rows whose string field equals want, ignoring case
func EqualFold[T any](field func(T) string, want string) Predicate[T] {
	return func(row T) bool {
		return strings.EqualFold(field(row), want)
	}
}

// Flag retains rows whose boolean field equals want
func Flag[T any](field func(T) bool, want bool) Predicate[T] {
	return Equals(field, want)
}

// Contains retains rows whose string field contains sub, ignoring case
func Contains[T any](field func(T) string, sub string) Predicate[T] {
	needle := strings.ToLower(sub)
	return func(row T) bool {
		return strings.Contains(strings.ToLower(field(row)), needle)
	}
}

// DateRange retains rows whose date lies in [from, to], compared by calendar
// day. A nil bound is open. Rows with a zero date never match a bounded range.
func DateRange[T any](field func(T) time.Time, from, to *time.Time) Predicate[T] {
	return func(row T) bool {
		if from == nil && to == nil {
			return true
		}
		d := field(row)
		if d.IsZero() {
			return false
		}
		day := dayOf(d)
		if from != nil && day.Before(dayOf(*from)) {
			return false
		}
		if to != nil && day.After(dayOf(*to)) {
			return false
		}
		return true
	}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
