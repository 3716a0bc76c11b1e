// AngelaMos | 2026
// memory.go

package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/core"
)

// MemoryStore is a map-backed Store used by tests and local development.
// It honors the same atomicity contract as the Postgres implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(
	_ context.Context,
	key string,
) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", key, core.ErrNotFound)
	}

	return clone(value), nil
}

func (s *MemoryStore) Set(
	_ context.Context,
	key string,
	value json.RawMessage,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = clone(value)
	return nil
}

func (s *MemoryStore) SetNX(
	_ context.Context,
	key string,
	value json.RawMessage,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		return false, nil
	}

	s.data[key] = clone(value)
	return true, nil
}

func (s *MemoryStore) SetMulti(_ context.Context, pairs []Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pair := range pairs {
		s.data[pair.Key] = clone(pair.Value)
	}

	return nil
}

func (s *MemoryStore) CompareAndSwap(
	_ context.Context,
	key string,
	old, next json.RawMessage,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data[key]
	if !ok {
		return false, fmt.Errorf("cas %q: %w", key, core.ErrNotFound)
	}

	if !jsonEqual(current, old) {
		return false, nil
	}

	s.data[key] = clone(next)
	return true, nil
}

func (s *MemoryStore) GetByPrefix(
	_ context.Context,
	prefix string,
) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var values []json.RawMessage
	for key, value := range s.data {
		if strings.HasPrefix(key, prefix) {
			values = append(values, clone(value))
		}
	}

	return values, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Len reports the number of stored keys. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func clone(value json.RawMessage) json.RawMessage {
	return json.RawMessage(bytes.Clone(value))
}

// jsonEqual matches the semantic equality JSONB gives the Postgres store.
func jsonEqual(a, b json.RawMessage) bool {
	if bytes.Equal(a, b) {
		return true
	}

	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}

	return reflect.DeepEqual(av, bv)
}

var _ Store = (*MemoryStore)(nil)
