// AngelaMos | 2026
// memory_test.go

package kv

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", json.RawMessage(`{"a":1}`)))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestMemoryStore_SetNX(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ok, err := store.SetNX(ctx, "k", json.RawMessage(`"first"`))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.SetNX(ctx, "k", json.RawMessage(`"second"`))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"first"`, string(got))
}

func TestMemoryStore_SetMulti(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.SetMulti(ctx, []Pair{
		{Key: "a", Value: json.RawMessage(`1`)},
		{Key: "b", Value: json.RawMessage(`2`)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_CompareAndSwap(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", json.RawMessage(`{"n":1}`)))

	t.Run("matching old value swaps", func(t *testing.T) {
		ok, err := store.CompareAndSwap(
			ctx,
			"k",
			json.RawMessage(`{"n":1}`),
			json.RawMessage(`{"n":2}`),
		)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stale old value does not swap", func(t *testing.T) {
		ok, err := store.CompareAndSwap(
			ctx,
			"k",
			json.RawMessage(`{"n":1}`),
			json.RawMessage(`{"n":3}`),
		)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("equality is semantic like jsonb", func(t *testing.T) {
		ok, err := store.CompareAndSwap(
			ctx,
			"k",
			json.RawMessage(`{ "n" : 2 }`),
			json.RawMessage(`{"n":4}`),
		)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing key errors", func(t *testing.T) {
		_, err := store.CompareAndSwap(
			ctx,
			"missing",
			json.RawMessage(`1`),
			json.RawMessage(`2`),
		)
		require.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestMemoryStore_GetByPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user:a", json.RawMessage(`1`)))
	require.NoError(t, store.Set(ctx, "user:b", json.RawMessage(`2`)))
	require.NoError(t, store.Set(ctx, "report:x", json.RawMessage(`3`)))

	values, err := store.GetByPrefix(ctx, "user:")
	require.NoError(t, err)
	assert.Len(t, values, 2)

	values, err = store.GetByPrefix(ctx, "zzz:")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", json.RawMessage(`1`)))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, core.ErrNotFound)

	// deleting twice is fine
	require.NoError(t, store.Delete(ctx, "k"))
}
