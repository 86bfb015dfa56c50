package view

import "context"

// refreshFirst runs refresh before call, so rows read while the request is
// in flight already carry the local change
func refreshFirst(refresh func(), call func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		refresh()
		return call(ctx)
	}
}

// refreshFirstCreate is refreshFirst for calls that return the created row
func refreshFirstCreate[T any](refresh func(), call func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		refresh()
		return call(ctx)
	}
}
