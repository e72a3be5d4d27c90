// Package archive stores exported files in object storage.
package archive

import (
	"context"
	"sync"
)

// Store persists an exported file under key
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// Object is a stored file
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryStore keeps objects in memory
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (m *MemoryStore) Put(_ context.Context, key, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

// Get returns a stored object
func (m *MemoryStore) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
