package links

import "sync/atomic"

// Registry holds the current edge set as an immutable snapshot. Readers get
// a complete, consistent slice; reload replaces the whole snapshot at once so
// a concurrent reader can never see a partially-updated set. Callers must not
// mutate a returned snapshot.
type Registry struct {
	snapshot atomic.Pointer[[]AgentLink]
}

// NewRegistry creates a registry holding the given edge set.
func NewRegistry(edges []AgentLink) *Registry {
	r := &Registry{}
	r.Replace(edges)
	return r
}

// Snapshot returns the current edge set.
func (r *Registry) Snapshot() []AgentLink {
	return *r.snapshot.Load()
}

// Replace swaps in a new edge set wholesale.
func (r *Registry) Replace(edges []AgentLink) {
	copied := make([]AgentLink, len(edges))
	copy(copied, edges)
	r.snapshot.Store(&copied)
}
