// internal/store/memory.go
//
// In-memory implementation of KV. State is lost when the process restarts.

package store

import (
	"context"
	"slices"
	"sync"
)

// memory is a map-based KV.
type memory struct {
	mu    sync.RWMutex      // guards blobs
	blobs map[string][]byte // keyed by KV key
}

// NewMemory constructs an empty in-memory KV.
func NewMemory() KV {
	return &memory{blobs: make(map[string][]byte)}
}

// Save copies blob so later changes by the caller are not visible.
func (m *memory) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = slices.Clone(blob)
	return nil
}

func (m *memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.blobs[key]; ok {
		return slices.Clone(b), nil
	}
	return nil, ErrNotFound
}
