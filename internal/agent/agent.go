// Package agent holds the agent identity and mutable state record (spec
// C1/C4), including inventory, skills, memory, and the parent-child
// reproductive DAG. Per-tick vital transitions live in internal/vitals,
// which operates on the State defined here.
package agent

import (
	"time"

	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// Sex is binary, per spec §3.
type Sex uint8

const (
	SexMale Sex = iota
	SexFemale
)

// Identity is the immutable-after-creation portion of an agent record.
type Identity struct {
	ID          ids.AgentID
	Name        string
	Sex         Sex
	BirthTick   uint64
	DeathTick   *uint64
	Cause       types.DeathCause
	ParentA     *ids.AgentID
	ParentB     *ids.AgentID
	Generation  int
	Personality types.Personality
	CreatedAt   time.Time
}

// DefaultLifespanTicks caps how long an agent can live before dying of old age.
// Configurable per-run via config.Population.LifespanTicks; stored on
// State rather than Identity since different runs may tune lifespan.
const DefaultLifespanTicks = 100 * 360 // ~100 sim-years at 360 ticks/year

// State is the mutable, per-tick portion of an agent record.
type State struct {
	ID ids.AgentID

	Energy int // 0-100, capped by MaxEnergyForAge
	Health int // 0-100
	Hunger int // 0-100
	Thirst int // 0-100
	Age    uint64 // ticks

	Location    ids.LocationID
	Destination *ids.LocationID
	TravelPath  []ids.LocationID // remaining hops, including destination, when in flight
	TravelProgress int // ticks elapsed on the current hop

	Inventory Inventory

	CarryCapacity int

	Knowledge map[string]struct{}
	Skills    SkillSet

	Goals []string

	Relationships map[ids.AgentID]emdecimal.Decimal // score in [-1, 1]

	Memories []Memory

	Resting bool // true while executing/recovering from a Rest action this tick

	LifespanTicks uint64
}

// NewState constructs a State with zeroed vitals at full health and
// empty collections, ready for spawn-time customization.
func NewState(id ids.AgentID, location ids.LocationID, carryCapacity int, lifespan uint64) *State {
	return &State{
		ID:            id,
		Energy:        100,
		Health:        100,
		Hunger:        0,
		Thirst:        0,
		Age:           0,
		Location:      location,
		Inventory:     NewInventory(),
		CarryCapacity: carryCapacity,
		Knowledge:     map[string]struct{}{},
		Skills:        NewSkillSet(),
		Relationships: map[ids.AgentID]emdecimal.Decimal{},
		LifespanTicks: lifespan,
	}
}

// InFlight reports whether the agent is currently traveling (has a
// destination set). In-flight agents are not occupants of any location.
func (s *State) InFlight() bool {
	return s.Destination != nil
}

// KnowsOf reports whether the agent possesses the named knowledge.
func (s *State) KnowsOf(knowledge string) bool {
	_, ok := s.Knowledge[knowledge]
	return ok
}

// Learn adds knowledge to the agent's knowledge set.
func (s *State) Learn(knowledge string) {
	s.Knowledge[knowledge] = struct{}{}
}

// RelationshipWith returns the agent's relationship score toward other,
// defaulting to 0 (neutral) if no relationship has been recorded yet.
func (s *State) RelationshipWith(other ids.AgentID) emdecimal.Decimal {
	if v, ok := s.Relationships[other]; ok {
		return v
	}
	return emdecimal.Zero
}

// AdjustRelationship applies delta to the relationship score with other,
// clamped to [-1, 1].
func (s *State) AdjustRelationship(other ids.AgentID, delta emdecimal.Decimal) {
	cur := s.RelationshipWith(other)
	negOne := emdecimal.NewFromInt(-1)
	s.Relationships[other] = emdecimal.Clamp(cur.Add(delta), negOne, emdecimal.One)
}

// MaxEnergyForAge returns the age-derived energy cap: full base cap (100)
// until 80% of lifespan, then linearly declining to a floor of 50% of
// base cap at end of life (spec §4.3 step 4).
func MaxEnergyForAge(age, lifespan uint64) int {
	const baseCap = 100
	if lifespan == 0 {
		return baseCap
	}
	declineStart := lifespan * 80 / 100
	if age <= declineStart {
		return baseCap
	}
	if age >= lifespan {
		return baseCap / 2
	}
	remaining := lifespan - declineStart
	elapsed := age - declineStart
	// Linear decline from baseCap to baseCap/2 over [declineStart, lifespan].
	floor := baseCap / 2
	span := baseCap - floor
	drop := int(uint64(span) * elapsed / remaining)
	capped := baseCap - drop
	if capped < floor {
		capped = floor
	}
	return capped
}
