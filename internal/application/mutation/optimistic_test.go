package mutation

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID       int
	LocalID  string
	Verified bool
}

func rowKey(r row) string {
	if r.LocalID != "" {
		return r.LocalID
	}
	return strconv.Itoa(r.ID)
}

func seed() *State[row] {
	return NewState(rowKey, []row{{ID: 1}, {ID: 2, Verified: true}, {ID: 3}})
}

var errBackend = errors.New("backend unavailable")

func toggle(r row) row {
	r.Verified = !r.Verified
	return r
}

func TestUpdate_VisibleBeforeCallCompletes(t *testing.T) {
	state := seed()

	err := Update(context.Background(), state, "1", toggle, func(ctx context.Context) error {
		current, _ := state.Find("1")
		assert.True(t, current.Verified, "change must be applied before the call")
		return nil
	})
	require.NoError(t, err)

	current, _ := state.Find("1")
	assert.True(t, current.Verified)
}

func TestUpdate_RollbackOnFailure(t *testing.T) {
	for _, key := range []string{"1", "2"} {
		state := seed()
		before, _ := state.Find(key)

		err := Update(context.Background(), state, key, toggle, func(ctx context.Context) error {
			return errBackend
		})
		assert.ErrorIs(t, err, errBackend)

		after, _ := state.Find(key)
		assert.Equal(t, before.Verified, after.Verified, "key %s", key)
		assert.Equal(t, seed().Rows(), state.Rows())
	}
}

func TestUpdate_UnknownKey(t *testing.T) {
	state := seed()
	called := false
	err := Update(context.Background(), state, "99", toggle, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
}

func TestRemove(t *testing.T) {
	state := seed()

	err := Remove(context.Background(), state, "2", func(ctx context.Context) error { return errBackend })
	assert.ErrorIs(t, err, errBackend)
	assert.Len(t, state.Rows(), 3)

	err = Remove(context.Background(), state, "2", func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: 1}, {ID: 3}}, state.Rows())
}

func TestCreate_ReplacesPlaceholder(t *testing.T) {
	state := seed()
	placeholder := row{LocalID: NewPlaceholderKey()}
	assert.True(t, strings.HasPrefix(placeholder.LocalID, "local-"))

	created, err := Create(context.Background(), state, placeholder, func(ctx context.Context) (row, error) {
		rows := state.Rows()
		assert.Equal(t, placeholder, rows[len(rows)-1], "placeholder visible during call")
		return row{ID: 4}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, row{ID: 4}, created)
	assert.Equal(t, []row{{ID: 1}, {ID: 2, Verified: true}, {ID: 3}, {ID: 4}}, state.Rows())
	_, found := state.Find(placeholder.LocalID)
	assert.False(t, found)
}

func TestCreate_RollbackOnFailure(t *testing.T) {
	state := seed()

	_, err := Create(context.Background(), state, row{LocalID: NewPlaceholderKey()}, func(ctx context.Context) (row, error) {
		return row{}, errBackend
	})
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, seed().Rows(), state.Rows())
}

func TestNewPlaceholderKey_Unique(t *testing.T) {
	assert.NotEqual(t, NewPlaceholderKey(), NewPlaceholderKey())
}
