package repository

import (
	"sync"

	"creeper-desktop/internal/domain"
)

// MemoryRepository implements domain.ConfigRepository with a map guarded by
// a single mutex. Reads and writes both take the exclusive lock.
// This is a secondary adapter; entries live for the life of the process.
type MemoryRepository struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]string)}
}

// Get returns the raw value stored under key.
func (m *MemoryRepository) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

// Set inserts or overwrites key.
func (m *MemoryRepository) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// Entries returns a copy of all entries.
func (m *MemoryRepository) Entries() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

var _ domain.ConfigRepository = (*MemoryRepository)(nil)
