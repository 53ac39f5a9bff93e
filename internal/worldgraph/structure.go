package worldgraph

import (
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// Structure is a built improvement at a location: a shed, granary,
// workshop, etc. Structures hold resources (Build deposits into them,
// Salvage withdraws from them) and decay over time when structure decay
// is enabled (spec §6 environment.structure_decay_enabled).
type Structure struct {
	ID         ids.StructureID
	Location   ids.LocationID
	Owner      ids.AgentID
	Kind       string
	Capacity   int64 // max total resources the structure can hold
	Resources  map[types.Resource]int64
	Durability int64
	DecayRate  int64
}

// NewStructure constructs an empty structure at location, owned by
// owner.
func NewStructure(location ids.LocationID, owner ids.AgentID, kind string, capacity, durability, decayRate int64) *Structure {
	return &Structure{
		ID:         ids.NewStructureID(),
		Location:   location,
		Owner:      owner,
		Kind:       kind,
		Capacity:   capacity,
		Resources:  map[types.Resource]int64{},
		Durability: durability,
		DecayRate:  decayRate,
	}
}

// TotalStored sums every resource held in the structure.
func (s *Structure) TotalStored() int64 {
	var total int64
	for _, q := range s.Resources {
		total += q
	}
	return total
}

// StructureRegistry holds every built structure, keyed by id.
type StructureRegistry struct {
	byID map[ids.StructureID]*Structure
}

// NewStructureRegistry creates an empty structure registry.
func NewStructureRegistry() *StructureRegistry {
	return &StructureRegistry{byID: map[ids.StructureID]*Structure{}}
}

// Add registers a new structure.
func (r *StructureRegistry) Add(s *Structure) { r.byID[s.ID] = s }

// Get looks up a structure by id.
func (r *StructureRegistry) Get(id ids.StructureID) (*Structure, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Remove deletes a structure (e.g. fully decayed or destroyed).
func (r *StructureRegistry) Remove(id ids.StructureID) { delete(r.byID, id) }

// All returns every structure in the registry, in no particular order
// (used by persistence, which sorts by id before writing for a
// deterministic save).
func (r *StructureRegistry) All() []*Structure {
	out := make([]*Structure, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out
}

// AtLocation returns every structure at the given location.
func (r *StructureRegistry) AtLocation(loc ids.LocationID) []*Structure {
	var out []*Structure
	for _, s := range r.byID {
		if s.Location == loc {
			out = append(out, s)
		}
	}
	return out
}

// AtLocationOfKind reports whether a structure of the given kind exists
// at loc (e.g. "shelter", consulted by vitals' natural-heal bonus).
func (r *StructureRegistry) AtLocationOfKind(loc ids.LocationID, kind string) bool {
	for _, s := range r.byID {
		if s.Location == loc && s.Kind == kind {
			return true
		}
	}
	return false
}

// DecayStructures reduces every structure's durability by its decay
// rate; a structure whose durability reaches zero is removed and
// returned to the caller, which is responsible for recording the loss
// of its remaining resources as a Decay ledger entry (worldgraph does
// not import internal/ledger to avoid a layering cycle).
func (r *StructureRegistry) DecayStructures() (destroyed []*Structure) {
	for id, s := range r.byID {
		if s.DecayRate <= 0 {
			continue
		}
		s.Durability -= s.DecayRate
		if s.Durability <= 0 {
			destroyed = append(destroyed, s)
			delete(r.byID, id)
		}
	}
	return destroyed
}
