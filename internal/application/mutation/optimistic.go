// Package mutation applies local edits before the backend confirms them and
// restores the pre-edit snapshot when the backend call fails.
//
// There is no request fencing: a slow response can land after a newer edit,
// and a rollback restores the whole snapshot taken before its own edit.
package mutation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a keyed row is not in the local state
var ErrNotFound = errors.New("row not found in local state")

// State is a screen's local copy of server rows
type State[T any] struct {
	mu   sync.Mutex
	rows []T
	key  func(T) string
}

// NewState creates a local state identified by key
func NewState[T any](key func(T) string, rows []T) *State[T] {
	return &State[T]{
		rows: append([]T(nil), rows...),
		key:  key,
	}
}

// Rows returns a copy of the current rows
func (s *State[T]) Rows() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.rows...)
}

// Set replaces the rows, typically after a fetch
func (s *State[T]) Set(rows []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]T(nil), rows...)
}

// Find returns the row with the given key
func (s *State[T]) Find(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if s.key(row) == key {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Key returns the key of row
func (s *State[T]) Key(row T) string {
	return s.key(row)
}

// apply swaps in change(rows) and returns the rows it replaced
func (s *State[T]) apply(change func([]T) []T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := append([]T(nil), s.rows...)
	s.rows = change(append([]T(nil), s.rows...))
	return snapshot
}

// Apply changes the local rows, then calls the backend. If the call fails the
// rows are restored to the snapshot taken before the change.
func Apply[T any](ctx context.Context, s *State[T], change func([]T) []T, call func(context.Context) error) error {
	snapshot := s.apply(change)
	if err := call(ctx); err != nil {
		s.Set(snapshot)
		return err
	}
	return nil
}

// Create appends placeholder, calls the backend and swaps the placeholder for
// the record the backend returns. On failure the snapshot is restored.
func Create[T any](ctx context.Context, s *State[T], placeholder T, call func(context.Context) (T, error)) (T, error) {
	placeholderKey := s.key(placeholder)
	snapshot := s.apply(func(rows []T) []T {
		return append(rows, placeholder)
	})

	created, err := call(ctx)
	if err != nil {
		s.Set(snapshot)
		var zero T
		return zero, err
	}

	s.apply(ReplaceByKey(s.key, placeholderKey, created))
	return created, nil
}

// NewPlaceholderKey returns a local key for a row the server has not assigned an ID yet
func NewPlaceholderKey() string {
	return "local-" + uuid.NewString()
}

// ReplaceByKey returns a change that swaps the row with key for row
func ReplaceByKey[T any](keyOf func(T) string, key string, row T) func([]T) []T {
	return func(rows []T) []T {
		for i := range rows {
			if keyOf(rows[i]) == key {
				rows[i] = row
				return rows
			}
		}
		return rows
	}
}

// UpdateByKey returns a change that rewrites the row with key through fn
func UpdateByKey[T any](keyOf func(T) string, key string, fn func(T) T) func([]T) []T {
	return func(rows []T) []T {
		for i := range rows {
			if keyOf(rows[i]) == key {
				rows[i] = fn(rows[i])
				return rows
			}
		}
		return rows
	}
}

// RemoveByKey returns a change that drops the row with key
func RemoveByKey[T any](keyOf func(T) string, key string) func([]T) []T {
	return func(rows []T) []T {
		out := rows[:0]
		for _, row := range rows {
			if keyOf(row) != key {
				out = append(out, row)
			}
		}
		return out
	}
}

// Update is Apply for a single keyed row
func Update[T any](ctx context.Context, s *State[T], key string, fn func(T) T, call func(context.Context) error) error {
	if _, ok := s.Find(key); !ok {
		return ErrNotFound
	}
	return Apply(ctx, s, UpdateByKey(s.key, key, fn), call)
}

// Remove is Apply for deleting a single keyed row
func Remove[T any](ctx context.Context, s *State[T], key string, call func(context.Context) error) error {
	if _, ok := s.Find(key); !ok {
		return ErrNotFound
	}
	return Apply(ctx, s, RemoveByKey(s.key, key), call)
}
