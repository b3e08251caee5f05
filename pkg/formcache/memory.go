package formcache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-process Store with lazy expiry.
// The default store, and the one tests use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	snap      *Snapshot
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Put caches snap under buildID for ttl. A non-positive ttl means no expiry.
func (m *MemoryStore) Put(_ context.Context, buildID string, snap *Snapshot, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[buildID] = memoryEntry{snap: snap, expiresAt: expires}
	m.mu.Unlock()
	return nil
}

// Get returns the snapshot under buildID, expiring it lazily.
func (m *MemoryStore) Get(_ context.Context, buildID string) (*Snapshot, bool) {
	m.mu.RLock()
	entry, ok := m.entries[buildID]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, buildID)
		m.mu.Unlock()
		return nil, false
	}
	return entry.snap, true
}

// Delete drops the snapshot under buildID.
func (m *MemoryStore) Delete(_ context.Context, buildID string) error {
	m.mu.Lock()
	delete(m.entries, buildID)
	m.mu.Unlock()
	return nil
}
