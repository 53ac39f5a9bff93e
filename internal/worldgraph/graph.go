// Package worldgraph holds every location and route in the simulated
// world, and implements the per-tick regeneration and route-decay rules
// plus pathfinding and connectivity queries (spec C3).
//
// Locations are created once at world init and never destroyed. Routes
// may decay through path types but their identity persists. The graph
// is owned exclusively by the tick orchestrator.
package worldgraph

import (
	"fmt"
	"sort"
	"time"

	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// ResourceNode is a single harvestable resource pool at a location.
type ResourceNode struct {
	Resource      types.Resource
	Available     int64
	RegenRate     int64 // base per-tick regen before season modifier; 0 = finite resource
	MaxCapacity   int64
}

// Location is the immutable definition of a place in the world, plus
// its live resource nodes and occupant set.
type Location struct {
	ID           ids.LocationID
	Name         string
	Region       string
	TypeTag      string
	Description  string
	Capacity     int
	Resources    map[types.Resource]*ResourceNode
	DiscoveredBy map[ids.AgentID]struct{}
	CreatedAt    time.Time

	occupants map[ids.AgentID]struct{}
}

// NewLocation constructs a Location with empty occupant/discovery sets.
func NewLocation(name, region, typeTag, description string, capacity int) *Location {
	return &Location{
		ID:           ids.NewLocationID(),
		Name:         name,
		Region:       region,
		TypeTag:      typeTag,
		Description:  description,
		Capacity:     capacity,
		Resources:    map[types.Resource]*ResourceNode{},
		DiscoveredBy: map[ids.AgentID]struct{}{},
		CreatedAt:    time.Now(),
		occupants:    map[ids.AgentID]struct{}{},
	}
}

// Occupants returns the set of agent ids currently at this location,
// sorted for deterministic iteration.
func (l *Location) Occupants() []ids.AgentID {
	out := make([]ids.AgentID, 0, len(l.occupants))
	for a := range l.occupants {
		out = append(out, a)
	}
	sortAgentIDs(out)
	return out
}

// OccupantCount returns |occupants|, checked against Capacity by callers
// before admitting a new occupant.
func (l *Location) OccupantCount() int { return len(l.occupants) }

// HasOccupant reports whether agent is currently an occupant.
func (l *Location) HasOccupant(agent ids.AgentID) bool {
	_, ok := l.occupants[agent]
	return ok
}

func sortAgentIDs(a []ids.AgentID) {
	sort.Slice(a, func(i, j int) bool { return a[i].String() < a[j].String() })
}

// Route is a weighted, possibly-bidirectional edge between two
// locations.
type Route struct {
	ID            ids.RouteID
	From          ids.LocationID
	To            ids.LocationID
	TickCost      int64
	Path          types.PathType
	Durability    int64
	DecayRate     int64 // base per-tick decay before weather multiplier
	ACL           map[ids.AgentID]bool // nil = unrestricted; non-nil entries gate traversal
	Bidirectional bool
}

// Allows reports whether agent may traverse this route under its ACL.
func (r *Route) Allows(agent ids.AgentID) bool {
	if r.ACL == nil {
		return true
	}
	allowed, ok := r.ACL[agent]
	return ok && allowed
}

// Graph holds every location and route in the world.
type Graph struct {
	locations map[ids.LocationID]*Location
	routes    map[ids.RouteID]*Route
	// adjacency: location -> routes originating there (and the reverse
	// direction of bidirectional routes terminating there).
	adjacency map[ids.LocationID][]*Route
}

// NewGraph creates an empty world graph.
func NewGraph() *Graph {
	return &Graph{
		locations: map[ids.LocationID]*Location{},
		routes:    map[ids.RouteID]*Route{},
		adjacency: map[ids.LocationID][]*Route{},
	}
}

// AddLocation registers a location with the graph.
func (g *Graph) AddLocation(l *Location) {
	g.locations[l.ID] = l
}

// AddRoute registers a route and indexes it for adjacency queries. If
// Bidirectional, the route is reachable for traversal queries from
// either endpoint.
func (g *Graph) AddRoute(r *Route) {
	g.routes[r.ID] = r
	g.adjacency[r.From] = append(g.adjacency[r.From], r)
	if r.Bidirectional {
		g.adjacency[r.To] = append(g.adjacency[r.To], r)
	}
}

// Location looks up a location by id.
func (g *Graph) Location(id ids.LocationID) (*Location, bool) {
	l, ok := g.locations[id]
	return l, ok
}

// Route looks up a route by id.
func (g *Graph) Route(id ids.RouteID) (*Route, bool) {
	r, ok := g.routes[id]
	return r, ok
}

// Locations returns every location, ordered by id for determinism.
func (g *Graph) Locations() []*Location {
	out := make([]*Location, 0, len(g.locations))
	for _, l := range g.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// Routes returns every route, ordered by id for determinism.
func (g *Graph) Routes() []*Route {
	out := make([]*Route, 0, len(g.routes))
	for _, r := range g.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// otherEnd returns the location id at the far end of route r from `at`,
// honoring bidirectionality.
func otherEnd(r *Route, at ids.LocationID) (ids.LocationID, bool) {
	if r.From == at {
		return r.To, true
	}
	if r.Bidirectional && r.To == at {
		return r.From, true
	}
	return ids.LocationID{}, false
}

// Neighbors returns the location ids directly reachable from `from` via
// a single route, in route-id order. Returns an empty (not nil) slice
// if the location has no routes.
func (g *Graph) Neighbors(from ids.LocationID) []ids.LocationID {
	routes := g.adjacency[from]
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID.String() < routes[j].ID.String() })
	out := make([]ids.LocationID, 0, len(routes))
	for _, r := range routes {
		if dest, ok := otherEnd(r, from); ok {
			out = append(out, dest)
		}
	}
	return out
}

// RouteBetween finds the route (if any) directly connecting from and
// to, honoring bidirectionality.
func (g *Graph) RouteBetween(from, to ids.LocationID) (*Route, bool) {
	for _, r := range g.adjacency[from] {
		if dest, ok := otherEnd(r, from); ok && dest == to {
			return r, true
		}
	}
	return nil, false
}

// ErrLocationNotFound is returned by movement/pathfinding operations
// when a referenced location id does not exist in the graph.
var ErrLocationNotFound = fmt.Errorf("worldgraph: location not found")

// ErrLocationAtCapacity is returned by MoveAgent when the destination
// has no room.
var ErrLocationAtCapacity = fmt.Errorf("worldgraph: location at capacity")

// ErrAgentNotAtLocation is returned by MoveAgent when the agent is not
// currently an occupant of the claimed source location.
var ErrAgentNotAtLocation = fmt.Errorf("worldgraph: agent not at claimed source location")

// MoveAgent removes agent from source's occupant set and adds it to
// destination's, after validating both locations exist, the agent is
// actually at source, and destination has capacity. On any failure
// both locations are left unchanged.
func (g *Graph) MoveAgent(agent ids.AgentID, source, destination ids.LocationID) error {
	src, ok := g.locations[source]
	if !ok {
		return ErrLocationNotFound
	}
	dst, ok := g.locations[destination]
	if !ok {
		return ErrLocationNotFound
	}
	if !src.HasOccupant(agent) {
		return ErrAgentNotAtLocation
	}
	if dst.OccupantCount() >= dst.Capacity {
		return ErrLocationAtCapacity
	}

	delete(src.occupants, agent)
	dst.occupants[agent] = struct{}{}
	return nil
}

// PlaceAgent adds agent directly to location's occupant set, bypassing
// movement validation. Used only at world init / spawn time.
func (g *Graph) PlaceAgent(agent ids.AgentID, location ids.LocationID) error {
	loc, ok := g.locations[location]
	if !ok {
		return ErrLocationNotFound
	}
	loc.occupants[agent] = struct{}{}
	return nil
}

// RemoveAgent removes agent from location's occupant set unconditionally
// (used when an agent dies or departs without a destination).
func (g *Graph) RemoveAgent(agent ids.AgentID, location ids.LocationID) {
	if loc, ok := g.locations[location]; ok {
		delete(loc.occupants, agent)
	}
}

// Connected reports whether a BFS from any single location reaches
// every other location in the graph (spec §4.2 connectivity check).
func (g *Graph) Connected() bool {
	locs := g.Locations()
	if len(locs) <= 1 {
		return true
	}
	start := locs[0].ID
	visited := map[ids.LocationID]bool{start: true}
	queue := []ids.LocationID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur) {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(visited) == len(locs)
}
