// Package formcache stores built forms between the build and submit halves
// of a form cycle, keyed by form build id. The driver is selected by
// FORM_CACHE_DRIVER ("memory" or "redis").
package formcache

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/formbus/config"
	"github.com/shashiranjanraj/formbus/pkg/form"
	"github.com/shashiranjanraj/formbus/pkg/logger"
)

// Snapshot is the cached unit: one built (and already altered) form plus
// the identifiers needed to resume processing on submit.
type Snapshot struct {
	FormID     string     `json:"form_id"`
	BaseFormID string     `json:"base_form_id,omitempty"`
	Form       *form.Form `json:"form"`
	BuiltAt    time.Time  `json:"built_at"`
}

// Store is the built-form cache contract.
type Store interface {
	Put(ctx context.Context, buildID string, snap *Snapshot, ttl time.Duration) error
	Get(ctx context.Context, buildID string) (*Snapshot, bool)
	Delete(ctx context.Context, buildID string) error
}

var (
	mu      sync.RWMutex
	backing Store = NewMemoryStore()
)

// Connect selects and boots the configured store. With the redis driver a
// failed ping falls back to the in-memory store so form processing keeps
// working on a single node.
func Connect() {
	switch config.FormCacheDriver() {
	case "redis":
		store, err := NewRedisStore()
		if err != nil {
			logger.Warn("formcache: redis unavailable, using memory store", "error", err)
			SetStore(NewMemoryStore())
			return
		}
		SetStore(store)
	default:
		SetStore(NewMemoryStore())
	}
}

// SetStore replaces the package-level store (used by Connect and by tests).
func SetStore(s Store) {
	mu.Lock()
	defer mu.Unlock()
	backing = s
}

func store() Store {
	mu.RLock()
	defer mu.RUnlock()
	return backing
}

// Put caches snap under buildID with the configured TTL.
func Put(ctx context.Context, buildID string, snap *Snapshot) error {
	return store().Put(ctx, buildID, snap, config.FormCacheTTL())
}

// Get retrieves the snapshot cached under buildID.
func Get(ctx context.Context, buildID string) (*Snapshot, bool) {
	return store().Get(ctx, buildID)
}

// Delete drops the snapshot cached under buildID.
func Delete(ctx context.Context, buildID string) error {
	return store().Delete(ctx, buildID)
}
