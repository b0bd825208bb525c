package cart

import "sync"

// Registry hands out one Container per cart owner so that all handlers for
// the same owner share the single logical writer.
type Registry struct {
	mu         sync.Mutex
	store      Store
	containers map[string]*Container
}

func NewRegistry(store Store) *Registry {
	return &Registry{
		store:      store,
		containers: make(map[string]*Container),
	}
}

// For returns the container for owner, constructing (and restoring) it on
// first use.
func (r *Registry) For(owner string) *Container {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.containers[owner]
	if !ok {
		c = NewContainer(r.store, owner)
		r.containers[owner] = c
	}
	return c
}
