// internal/component/registry.go
//
// Capability registry.
//
// Pluggable strategies (locale resolvers today, more capabilities later)
// call component.Register() in an init() function, naming the capability
// they implement and optional metadata.  Consumers query the registry
// with ListImplementations() and receive every registration for that
// capability, normalized and in deterministic order.
//
// Priority handling
//   Metadata may carry an explicit priority.  When it does not, the
//   registry records DefaultPriority (1000).  Registrations are returned
//   in first-registered order; callers that sort by priority therefore
//   get a stable, reproducible tie-break for free.

package component

import "sync"

// Capability names a pluggable contract, e.g. locale.ResolverCapability.
type Capability string

// DefaultPriority is recorded whenever Meta omits an explicit priority.
const DefaultPriority = 1000

// Meta is the registration metadata supplied alongside an instance.
type Meta struct {
	// Priority orders implementations within one capability; higher runs
	// first.  Nil means "unspecified", normalized to DefaultPriority.
	Priority *int
}

// Registration pairs one registered instance with its normalized priority.
type Registration struct {
	Instance any
	Priority int
}

// Registry is safe for concurrent use.  The zero value is ready.
type Registry struct {
	mu      sync.RWMutex
	entries map[Capability][]Registration
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: map[Capability][]Registration{}}
}

// Register records an instance under the given capability.  Registration
// order is preserved; it is the tie-break for equal priorities.
func (g *Registry) Register(capability Capability, instance any, meta Meta) {
	prio := DefaultPriority
	if meta.Priority != nil {
		prio = *meta.Priority
	}
	g.mu.Lock()
	if g.entries == nil {
		g.entries = map[Capability][]Registration{}
	}
	g.entries[capability] = append(g.entries[capability], Registration{Instance: instance, Priority: prio})
	g.mu.Unlock()
}

// ListImplementations returns a copy of every registration for the
// capability, in first-registered order.  The copy keeps callers from
// mutating registry state through the returned slice.
func (g *Registry) ListImplementations(capability Capability) []Registration {
	g.mu.RLock()
	defer g.mu.RUnlock()
	src := g.entries[capability]
	out := make([]Registration, len(src))
	copy(out, src)
	return out
}

// Priority is a convenience for building Meta with an explicit priority.
func Priority(p int) Meta { return Meta{Priority: &p} }
