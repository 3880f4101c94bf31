package app

import "sync"

// Registry maps chat channels to their running table. At most one table
// exists per channel.
type Registry struct {
	mu     sync.Mutex
	tables map[string]*table
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*table)}
}

func (r *Registry) lookup(channelID string) (*table, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[channelID]
	return t, ok
}

// create registers the table built by build unless the channel already has
// one. build runs under the registry lock.
func (r *Registry) create(channelID string, build func() *table) (*table, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.tables[channelID]; ok {
		return existing, false
	}
	t := build()
	r.tables[channelID] = t
	return t, true
}

// remove drops t from the registry if it is still the channel's table.
func (r *Registry) remove(channelID string, t *table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tables[channelID] == t {
		delete(r.tables, channelID)
	}
}

// Len returns the number of live tables.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables)
}

// Close stops every table and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	tables := r.tables
	r.tables = make(map[string]*table)
	r.mu.Unlock()
	for _, t := range tables {
		t.stop()
	}
}
