// Package store holds attachments referenced by registry nodes.
//
// The registry core never inspects attachment contents; a Document ref
// on a node carries only the opaque key the host chose when it put the
// blob here. Two implementations are provided: an in-memory store for
// tests and single-process hosts, and a Redis-backed store for hosts
// that share attachments between processes.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Common errors returned by attachment operations.
var (
	// ErrNotFound is returned when no attachment exists under the key.
	ErrNotFound = errors.New("store: attachment not found")

	// ErrInvalidKey is returned when a key is blank.
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store is the attachment collaborator contract. Keys are opaque
// strings chosen by the host.
type Store interface {
	// Put stores bytes under the key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the bytes stored under the key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}

// MemoryStore is a Store backed by a process-local map.
// Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory attachment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Put stores a copy of data under the key.
func (m *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = buf
	return nil
}

// Get returns a copy of the bytes stored under the key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrInvalidKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Delete removes the key.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}
