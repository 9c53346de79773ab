package kv

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps entries in process memory. A positive Quota caps the
// total size of all values in bytes.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	quota   int64
}

// NewMemoryStore creates an empty MemoryStore. quota <= 0 means unlimited.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte), quota: quota}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		used := int64(len(value))
		for k, v := range m.entries {
			if k != key {
				used += int64(len(v))
			}
		}
		if used > m.quota {
			return fmt.Errorf("writing %q (%d/%d bytes): %w", key, used, m.quota, ErrQuotaExceeded)
		}
	}
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
