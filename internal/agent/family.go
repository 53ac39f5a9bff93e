package agent

import (
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// Registry indexes every agent identity ever created (alive or dead),
// forming the permanent read-only identity map spec §3 describes: "live
// until a death cause is recorded, then remain in the identity map
// (read-only) forever — only the alive set shrinks."
//
// The parent-child relation forms a DAG by construction: a child's
// ParentA/ParentB always reference agents created earlier, so cycles
// cannot appear (spec §9). Lineage queries are BFS over this DAG; the
// reverse index (parent -> children) is maintained incrementally as
// children are registered.
type Registry struct {
	identities map[ids.AgentID]*Identity
	children   map[ids.AgentID][]ids.AgentID
}

// NewRegistry creates an empty identity registry.
func NewRegistry() *Registry {
	return &Registry{
		identities: map[ids.AgentID]*Identity{},
		children:   map[ids.AgentID][]ids.AgentID{},
	}
}

// Register adds a new identity, indexing it under both of its parents
// (if any) for descendant queries.
func (r *Registry) Register(id *Identity) {
	r.identities[id.ID] = id
	if id.ParentA != nil {
		r.children[*id.ParentA] = append(r.children[*id.ParentA], id.ID)
	}
	if id.ParentB != nil {
		r.children[*id.ParentB] = append(r.children[*id.ParentB], id.ID)
	}
}

// Get looks up an identity by id.
func (r *Registry) Get(id ids.AgentID) (*Identity, bool) {
	v, ok := r.identities[id]
	return v, ok
}

// All returns every identity ever registered, alive or dead, in no
// particular order. Callers that need determinism (persistence,
// perception) sort the result themselves.
func (r *Registry) All() []*Identity {
	out := make([]*Identity, 0, len(r.identities))
	for _, ident := range r.identities {
		out = append(out, ident)
	}
	return out
}

// RecordDeath sets DeathTick/Cause on an existing identity. The identity
// remains in the registry forever afterward.
func (r *Registry) RecordDeath(id ids.AgentID, tick uint64, cause types.DeathCause) {
	if ident, ok := r.identities[id]; ok {
		t := tick
		ident.DeathTick = &t
		ident.Cause = cause
	}
}

// Children returns the direct children of parent, in registration order.
func (r *Registry) Children(parent ids.AgentID) []ids.AgentID {
	return r.children[parent]
}

// Descendants returns every descendant of parent via BFS over the
// parent -> children index (the DAG cannot cycle, so no visited set is
// strictly required, but one is kept for defense-in-depth against a
// malformed registry).
func (r *Registry) Descendants(parent ids.AgentID) []ids.AgentID {
	var out []ids.AgentID
	visited := map[ids.AgentID]bool{parent: true}
	queue := append([]ids.AgentID{}, r.children[parent]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, cur)
		queue = append(queue, r.children[cur]...)
	}
	return out
}

// Siblings returns every other agent sharing at least one parent with
// id, excluding id itself.
func (r *Registry) Siblings(id ids.AgentID) []ids.AgentID {
	ident, ok := r.identities[id]
	if !ok {
		return nil
	}
	seen := map[ids.AgentID]bool{id: true}
	var out []ids.AgentID
	collect := func(parent *ids.AgentID) {
		if parent == nil {
			return
		}
		for _, sib := range r.children[*parent] {
			if !seen[sib] {
				seen[sib] = true
				out = append(out, sib)
			}
		}
	}
	collect(ident.ParentA)
	collect(ident.ParentB)
	return out
}

// Lineage returns the chain of ancestors from id up to the root(s),
// breadth-first: parents, then grandparents, and so on.
func (r *Registry) Lineage(id ids.AgentID) []ids.AgentID {
	var out []ids.AgentID
	visited := map[ids.AgentID]bool{id: true}
	queue := []ids.AgentID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		ident, ok := r.identities[cur]
		if !ok {
			continue
		}
		for _, p := range []*ids.AgentID{ident.ParentA, ident.ParentB} {
			if p != nil && !visited[*p] {
				visited[*p] = true
				out = append(out, *p)
				queue = append(queue, *p)
			}
		}
	}
	return out
}
