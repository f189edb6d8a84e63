package cache

import (
	"context"

	"github.com/puzpuzpuz/xsync/v2"
)

// MemoryStore implements Store with a concurrent in-process map
type MemoryStore struct {
	data *xsync.MapOf[string, []byte]
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: xsync.NewMapOf[[]byte]()}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok := m.data.Load(key)
	if !ok {
		return nil, false, nil
	}
	return val, true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data.Store(key, stored)
	return nil
}

// Len returns the number of stored entries
func (m *MemoryStore) Len() int {
	return m.data.Size()
}

func (m *MemoryStore) Close() error {
	return nil
}
