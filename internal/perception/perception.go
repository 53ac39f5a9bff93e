// Package perception assembles the per-agent perception payload handed
// to the decision source each tick (spec C7): a self-state projection,
// a fog-of-war-limited view of the surrounding world with fuzzified
// resource quantities, recent memories, the dynamically pruned set of
// actions the agent could currently attempt, and any notifications
// queued for it. Grounded on the teacher's Simulation snapshot assembly
// (internal/engine/simulation.go's per-agent view construction),
// generalized from the teacher's hex-tile view radius to the spec's
// discovered-locations fog-of-war model.
package perception

import (
	"sort"
	"strconv"

	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

// FuzzyQuantity buckets an exact resource count into the coarse band
// perception exposes to the decision source — agents never see the
// literal integer remaining in a resource node, only this
// classification (spec §4.7).
type FuzzyQuantity string

const (
	FuzzyNone      FuzzyQuantity = "none"
	FuzzyScarce    FuzzyQuantity = "scarce"
	FuzzyModerate  FuzzyQuantity = "moderate"
	FuzzyAbundant  FuzzyQuantity = "abundant"
	FuzzyPlentiful FuzzyQuantity = "plentiful"
)

// Fuzzify buckets available against capacity into one of the five
// bands. A resource node with no meaningful capacity (a finite, never
// replenished deposit) is bucketed against its own available count
// directly using fixed thresholds.
func Fuzzify(available, capacity int64) FuzzyQuantity {
	if available <= 0 {
		return FuzzyNone
	}
	if capacity <= 0 {
		switch {
		case available < 5:
			return FuzzyScarce
		case available < 20:
			return FuzzyModerate
		case available < 60:
			return FuzzyAbundant
		default:
			return FuzzyPlentiful
		}
	}
	ratio := float64(available) / float64(capacity)
	switch {
	case ratio < 0.15:
		return FuzzyScarce
	case ratio < 0.45:
		return FuzzyModerate
	case ratio < 0.8:
		return FuzzyAbundant
	default:
		return FuzzyPlentiful
	}
}

// SelfView is the agent's projection of its own state.
type SelfView struct {
	ID         ids.AgentID
	Energy     int
	Health     int
	Hunger     int
	Thirst     int
	Age        uint64
	CarryLoad  string // "current/max", per spec §4.7
	Location   ids.LocationID
	Skills     map[agent.SkillName]int
	Knowledge  []string
	Goals      []string
	Generation int
}

// ResourceView is a single fuzzified resource reading at a location.
type ResourceView struct {
	Resource types.Resource
	Quantity FuzzyQuantity
}

// AgentView is what a perceiving agent can tell about another agent —
// always limited to co-located agents, since the core has no
// over-the-horizon agent sensing.
type AgentView struct {
	ID     ids.AgentID
	Energy int
	Health int
}

// StructureView is what a perceiving agent can tell about a structure
// at its current location.
type StructureView struct {
	ID        ids.StructureID
	Kind      string
	Owner     ids.AgentID
	Occupancy string // "stored/capacity"
}

// LocationView is the fog-of-war-gated view of one location: full
// detail if discovered by the perceiving agent, bare existence (name
// and id only) otherwise.
type LocationView struct {
	ID         ids.LocationID
	Name       string
	Discovered bool
	Resources  []ResourceView // empty when !Discovered
}

// RouteView is a known route out of the current location.
type RouteView struct {
	ID       ids.RouteID
	To       ids.LocationID
	PathType types.PathType
}

// Surroundings is the perceiving agent's view of its current location
// and what is reachable from it.
type Surroundings struct {
	Here       LocationView
	Neighbors  []LocationView
	Occupants  []AgentView
	Structures []StructureView
	Routes     []RouteView
	Season     types.Season
	Weather    types.Weather
	TimeOfDay  types.TimeOfDay
}

// Payload is the complete per-tick perception handed to the decision
// source for one agent (spec C7/C8).
type Payload struct {
	Tick             uint64
	Self             SelfView
	Surroundings     Surroundings
	RecentMemories   []agent.Memory
	AvailableActions []types.ActionType
	Notifications    []string
}

// Context bundles the read-only world views Assemble needs. It
// intentionally duplicates the shape of actions.Context rather than
// importing it, keeping perception decoupled from the action pipeline.
type Context struct {
	Tick       uint64
	Graph      *worldgraph.Graph
	Agents     map[ids.AgentID]*agent.State
	Structures *worldgraph.StructureRegistry
	Season     types.Season
	Weather    types.Weather
	TimeOfDay  types.TimeOfDay
}

const recentMemoryWindow = 5

// Assemble builds the full perception payload for one agent.
func Assemble(ctx *Context, a *agent.State, notifications []string) Payload {
	here, _ := ctx.Graph.Location(a.Location)

	return Payload{
		Tick:             ctx.Tick,
		Self:             assembleSelf(a),
		Surroundings:     assembleSurroundings(ctx, a, here),
		RecentMemories:   agent.RecentImmediate(a.Memories, recentMemoryWindow),
		AvailableActions: availableActions(ctx, a, here),
		Notifications:    notifications,
	}
}

func assembleSelf(a *agent.State) SelfView {
	skills := make(map[agent.SkillName]int, len(a.Skills))
	for name, rec := range a.Skills {
		skills[name] = rec.Level
	}
	knowledge := make([]string, 0, len(a.Knowledge))
	for k := range a.Knowledge {
		knowledge = append(knowledge, k)
	}
	sort.Strings(knowledge)

	return SelfView{
		ID:        a.ID,
		Energy:    a.Energy,
		Health:    a.Health,
		Hunger:    a.Hunger,
		Thirst:    a.Thirst,
		Age:       a.Age,
		CarryLoad: agent.FormatCarryLoad(a.Inventory, a.CarryCapacity),
		Location:  a.Location,
		Skills:    skills,
		Knowledge: knowledge,
		Goals:     append([]string{}, a.Goals...),
	}
}

func assembleSurroundings(ctx *Context, a *agent.State, here *worldgraph.Location) Surroundings {
	s := Surroundings{
		Here:      locationView(here, true),
		Season:    ctx.Season,
		Weather:   ctx.Weather,
		TimeOfDay: ctx.TimeOfDay,
	}

	for _, nid := range ctx.Graph.Neighbors(here.ID) {
		loc, ok := ctx.Graph.Location(nid)
		if !ok {
			continue
		}
		_, discovered := loc.DiscoveredBy[a.ID]
		s.Neighbors = append(s.Neighbors, locationView(loc, discovered))
	}

	for _, occID := range here.Occupants() {
		if occID == a.ID {
			continue
		}
		occ, ok := ctx.Agents[occID]
		if !ok {
			continue
		}
		s.Occupants = append(s.Occupants, AgentView{ID: occ.ID, Energy: occ.Energy, Health: occ.Health})
	}

	for _, st := range ctx.Structures.AtLocation(here.ID) {
		s.Structures = append(s.Structures, StructureView{
			ID:        st.ID,
			Kind:      st.Kind,
			Owner:     st.Owner,
			Occupancy: occupancyString(st.TotalStored(), st.Capacity),
		})
	}

	for _, r := range ctx.Graph.Routes() {
		if r.From == here.ID || (r.Bidirectional && r.To == here.ID) {
			to := r.To
			if r.To == here.ID {
				to = r.From
			}
			s.Routes = append(s.Routes, RouteView{ID: r.ID, To: to, PathType: r.Path})
		}
	}

	return s
}

func locationView(loc *worldgraph.Location, discovered bool) LocationView {
	v := LocationView{ID: loc.ID, Name: loc.Name, Discovered: discovered}
	if !discovered {
		return v
	}
	for _, r := range types.AllResources {
		node, ok := loc.Resources[r]
		if !ok {
			continue
		}
		v.Resources = append(v.Resources, ResourceView{Resource: r, Quantity: Fuzzify(node.Available, node.MaxCapacity)})
	}
	return v
}

func occupancyString(stored, capacity int64) string {
	return strconv.FormatInt(stored, 10) + "/" + strconv.FormatInt(capacity, 10)
}

// availableActions dynamically prunes the action catalog to what the
// agent could plausibly attempt from its current state and location —
// the decision source still runs a request through the full pipeline,
// but this list spares it from proposing obviously infeasible actions
// (spec §4.7 "dynamically pruned").
func availableActions(ctx *Context, a *agent.State, here *worldgraph.Location) []types.ActionType {
	out := []types.ActionType{types.ActionNoAction, types.ActionRest}

	if len(ctx.Graph.Neighbors(here.ID)) > 0 {
		out = append(out, types.ActionMove)
	}
	for _, r := range types.AllResources {
		if node, ok := here.Resources[r]; ok && node.Available > 0 {
			out = append(out, types.ActionGather, types.ActionFarm, types.ActionPickup)
			break
		}
	}
	if a.Inventory.TotalLoad() > 0 {
		out = append(out, types.ActionDrop)
		for _, q := range a.Inventory {
			if q > 0 {
				out = append(out, types.ActionEat, types.ActionDrink, types.ActionTransfer, types.ActionTrade, types.ActionBuild)
				break
			}
		}
	}
	if len(here.Occupants()) > 1 {
		out = append(out, types.ActionTheft, types.ActionCombat, types.ActionCommunicate, types.ActionTeach, types.ActionReproduce)
	}
	if len(ctx.Structures.AtLocation(here.ID)) > 0 {
		out = append(out, types.ActionCraft)
	}

	return dedupeActions(out)
}

func dedupeActions(in []types.ActionType) []types.ActionType {
	seen := map[types.ActionType]bool{}
	out := make([]types.ActionType, 0, len(in))
	for _, a := range in {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
