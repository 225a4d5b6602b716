package actor

import (
	"sync"

	"github.com/nalamte/legacy-svn-scala/core/ds"
)

// linkRegistry owns the link graph of a system: adjacency sets keyed by
// actor id, plus an id index back to the actor handles. Links are
// symmetric and idempotent; actors themselves only hold their id.
type linkRegistry struct {
	mu    sync.Mutex
	links map[string]*ds.Set[string]
	byID  map[string]*Actor
}

func newLinkRegistry() *linkRegistry {
	return &linkRegistry{
		links: make(map[string]*ds.Set[string]),
		byID:  make(map[string]*Actor),
	}
}

func (r *linkRegistry) register(a *Actor) {
	r.mu.Lock()
	r.byID[a.id] = a
	r.mu.Unlock()
}

// link adds the symmetric a<->b edge. Linking an actor to itself or
// re-adding an existing edge is a no-op.
func (r *linkRegistry) link(a, b *Actor) {
	if a == b {
		return
	}
	r.mu.Lock()
	r.edgeSet(a.id).Add(b.id)
	r.edgeSet(b.id).Add(a.id)
	r.mu.Unlock()
}

// unlink removes the symmetric a<->b edge.
func (r *linkRegistry) unlink(a, b *Actor) {
	r.mu.Lock()
	if s, ok := r.links[a.id]; ok {
		s.Remove(b.id)
	}
	if s, ok := r.links[b.id]; ok {
		s.Remove(a.id)
	}
	r.mu.Unlock()
}

// peers returns the actors currently linked to a, in link insertion order.
func (r *linkRegistry) peers(a *Actor) []*Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.links[a.id]
	if !ok {
		return nil
	}
	out := make([]*Actor, 0, s.Len())
	s.ForEach(func(id string) {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	})
	return out
}

// linkedIDs returns a copy of a's adjacency set.
func (r *linkRegistry) linkedIDs(a *Actor) *ds.Set[string] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.links[a.id]; ok {
		return s.Copy()
	}
	return ds.NewSet[string]()
}

// drop removes a terminated actor from the registry, along with any edges
// that survived propagation.
func (r *linkRegistry) drop(a *Actor) {
	r.mu.Lock()
	if s, ok := r.links[a.id]; ok {
		s.ForEach(func(id string) {
			if peer, ok := r.links[id]; ok {
				peer.Remove(a.id)
			}
		})
		delete(r.links, a.id)
	}
	delete(r.byID, a.id)
	r.mu.Unlock()
}

func (r *linkRegistry) edgeSet(id string) *ds.Set[string] {
	s, ok := r.links[id]
	if !ok {
		s = ds.NewSet[string]()
		r.links[id] = s
	}
	return s
}

// visitSet marks actors already reached by one exit propagation walk, so
// cyclic link graphs raise at most one signal per peer.
type visitSet struct {
	seen *ds.Set[string]
}

func newVisitSet() *visitSet {
	return &visitSet{seen: ds.NewSet[string]()}
}

// mark records id and reports whether it was newly marked.
func (v *visitSet) mark(id string) bool {
	if v.seen.Contains(id) {
		return false
	}
	v.seen.Add(id)
	return true
}
