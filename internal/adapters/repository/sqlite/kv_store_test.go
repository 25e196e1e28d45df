package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

func openTestStore(t *testing.T) *KVStore {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "binder.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, found, err := store.Get(ctx, "ballotbinders:abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "ballotbinders:abc", []byte(`[{"BallotId":"1"}]`)))
	require.NoError(t, store.Set(ctx, "ballotbinders:abc", []byte(`[{"BallotId":"1"},{"BallotId":"2"}]`)))

	got, found, err := store.Get(ctx, "ballotbinders:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"BallotId":"1"},{"BallotId":"2"}]`, string(got))

	require.NoError(t, store.Remove(ctx, "ballotbinders:abc"))
	_, found, err = store.Get(ctx, "ballotbinders:abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKVStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "binder.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), got)
}

func TestKVStore_Closed(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	_, _, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
