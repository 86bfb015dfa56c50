package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "storage.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SetGetRemove(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "access_token")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "access_token", "abc"))
	require.NoError(t, store.Set(ctx, "access_token", "def"))

	value, err := store.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Equal(t, "def", value)

	require.NoError(t, store.Set(ctx, "user", `{"username":"ana"}`))
	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"access_token", "user"}, keys)

	require.NoError(t, store.Remove(ctx, "access_token", "user", "refresh_token"))
	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	ctx := context.Background()

	first, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "user", "ana"))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	value, err := second.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, "ana", value)
}
