// Package recordstore reads and writes the raw JSON arrays that quality modules keep in a
// shared flat key-value store.
//
// The KV interface is the store contract: Get returns the bytes under a key (or reports the
// key absent) and Set replaces them. The Adapter layers the record wire contract on top and
// never fails a read: absent keys, backend errors and undecodable content all read as zero
// records.
package recordstore

import (
	"context"
	"sort"
	"sync"
)

// KV is the external flat key-value store
type KV interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the value under key
	Set(ctx context.Context, key string, value []byte) error
}

// Lister is implemented by stores that can enumerate their keys
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// MemoryKV is an in-process KV, for tests and embedding
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get implements KV
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements KV
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Keys implements Lister
func (m *MemoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
