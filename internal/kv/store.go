// AngelaMos | 2026
// store.go

package kv

import (
	"context"
	"encoding/json"
)

// Store is a persistent mapping from string keys to JSON documents. It is
// the only storage abstraction in the system; every domain repository is a
// thin layer over it.
//
// Atomicity guarantees: Set is atomic for a single key, SetNX admits at most
// one winner per key, and CompareAndSwap succeeds only when the stored
// document still equals the expected one. Multi-key writes go through
// SetMulti, which is all-or-nothing where the backend supports transactions.
type Store interface {
	// Get returns the value for key, or an error wrapping core.ErrNotFound.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Set writes value under key, replacing any existing value.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// SetNX writes value only if key is absent. Returns false when another
	// writer got there first.
	SetNX(ctx context.Context, key string, value json.RawMessage) (bool, error)

	// SetMulti writes several pairs in one shot.
	SetMulti(ctx context.Context, pairs []Pair) error

	// CompareAndSwap replaces the value under key only while it still equals
	// old. Returns false on a lost race; an error wrapping core.ErrNotFound
	// when the key is absent.
	CompareAndSwap(
		ctx context.Context,
		key string,
		old, next json.RawMessage,
	) (bool, error)

	// GetByPrefix returns the values of every key with the given prefix,
	// each exactly once, in unspecified order.
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

type Pair struct {
	Key   string
	Value json.RawMessage
}
