package favorites

import (
	"context"
	"sync"
)

// Registry hands out one loaded Store per key, opening each lazily through
// the port factory.
type Registry struct {
	mu     sync.Mutex
	open   func(key string) Persistence
	stores map[string]*Store
}

func NewRegistry(open func(key string) Persistence) *Registry {
	return &Registry{open: open, stores: map[string]*Store{}}
}

func (r *Registry) Get(ctx context.Context, key string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[key]; ok {
		return s, nil
	}
	s, err := Open(ctx, r.open(key))
	if err != nil {
		return nil, err
	}
	r.stores[key] = s
	return s, nil
}
