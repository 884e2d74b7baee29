package insight

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry is a process-lifetime store mapping dataset identifiers to loaded
// datasets. It is safe for concurrent use; all map mutation happens under a
// single lock. There is no eviction policy and no size bound.
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{datasets: make(map[string]*Dataset)}
}

// Put stores the dataset under a fresh identifier and returns it. The
// identifier is also written to ds.ID.
func (r *Registry) Put(ds *Dataset) string {
	id := uuid.NewString()
	ds.ID = id

	r.mu.Lock()
	r.datasets[id] = ds
	r.mu.Unlock()
	return id
}

// Get returns the dataset for id, or ErrNotFound. Malformed identifiers are
// treated the same as unknown ones.
func (r *Registry) Get(id string) (*Dataset, error) {
	r.mu.RLock()
	ds, ok := r.datasets[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("Registry.Get: %w: %s", ErrNotFound, id)
	}
	return ds, nil
}

// Delete removes the dataset for id. Deleting an unknown id returns
// ErrNotFound; the failure is idempotent.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datasets[id]; !ok {
		return fmt.Errorf("Registry.Delete: %w: %s", ErrNotFound, id)
	}
	delete(r.datasets, id)
	return nil
}

// Len reports the number of stored datasets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.datasets)
}

// Shutdown clears all entries. Dataset state is transient; nothing is
// persisted.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.datasets = make(map[string]*Dataset)
	r.mu.Unlock()
}
