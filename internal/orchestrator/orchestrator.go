// Package orchestrator wires together the core components (C2-C8) into
// the fixed six-phase tick spec §4.5 defines: world wake, vitals,
// perception, decision, execution, tick close. Grounded on the
// teacher's internal/engine/tick.go + internal/engine/simulation.go
// phase-callback wiring style, adapted from the teacher's multi-cadence
// OnTick/OnHour/OnDay/.../OnSeason schedule to the spec's single fixed
// phase order executed once per tick (no hour/day/week cadence split).
package orchestrator

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/emergence-sim/emergence/internal/actions"
	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/clock"
	"github.com/emergence-sim/emergence/internal/decision"
	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/events"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/perception"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/vitals"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

// Engine holds every live world/agent dependency the tick needs and
// drives one Step per call. WeatherEnabled gates whether it rolls
// weather transitions at all; a run with WeatherEnabled=false stays
// WeatherClear forever.
type Engine struct {
	Clock      *clock.Clock
	Graph      *worldgraph.Graph
	Ledger     *ledger.Ledger
	Agents     map[ids.AgentID]*agent.State
	Identities *agent.Registry
	Structures *worldgraph.StructureRegistry
	Bus        *events.Bus
	Decision   decision.Source
	RNG        *rand.Rand

	VitalsConfig     vitals.Config
	ConflictStrategy types.ConflictStrategy

	AccidentalDiscoveryChance int // percent
	TeachBaseRate             int // percent

	WeatherEnabled bool
	SeasonsEnabled bool
	StructureDecay bool

	weather types.Weather
}

// New constructs an Engine from its fully-built dependencies. Callers
// (cmd/emergence, or a world-generation step) are responsible for
// populating Graph/Agents/Identities/Structures before the first Step.
func New(c *clock.Clock, g *worldgraph.Graph, l *ledger.Ledger, src decision.Source, rng *rand.Rand) *Engine {
	return &Engine{
		Clock:            c,
		Graph:            g,
		Ledger:           l,
		Agents:           map[ids.AgentID]*agent.State{},
		Identities:       agent.NewRegistry(),
		Structures:       worldgraph.NewStructureRegistry(),
		Bus:              events.NewBus(),
		Decision:         src,
		RNG:              rng,
		VitalsConfig:     vitals.DefaultConfig(),
		ConflictStrategy: types.ConflictFirstComeFirstServed,
		WeatherEnabled:   true,
		SeasonsEnabled:   true,
		StructureDecay:   true,
		weather:          types.WeatherClear,
	}
}

// Weather returns the current weather condition.
func (e *Engine) Weather() types.Weather { return e.weather }

// AlivePopulation returns the number of agents currently alive, for the
// runner's auto-recovery and extinction checks.
func (e *Engine) AlivePopulation() int { return len(e.aliveAgentIDs()) }

// AddAgent registers a freshly-spawned identity+state pair into the
// engine's world (used by the runner's auto-recovery spawner and by
// world-init code building the starting population).
func (e *Engine) AddAgent(ident *agent.Identity, s *agent.State) error {
	if err := e.Graph.PlaceAgent(s.ID, s.Location); err != nil {
		return err
	}
	e.Agents[s.ID] = s
	e.Identities.Register(ident)
	return nil
}

// aliveAgentIDs returns every living agent id, deterministically
// ordered, excluding any agent already marked dead in the registry.
func (e *Engine) aliveAgentIDs() []ids.AgentID {
	out := make([]ids.AgentID, 0, len(e.Agents))
	for id, s := range e.Agents {
		if s.Health <= 0 {
			continue
		}
		if ident, ok := e.Identities.Get(id); ok && ident.DeathTick != nil {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Step runs exactly one tick's six phases and returns the conservation
// verdict from tick close. A non-balanced Verdict is fatal to the run
// per spec §4.1 — the caller (internal/runner) decides how to react.
func (e *Engine) Step(ctx context.Context) (ledger.Verdict, error) {
	tick, err := e.Clock.Advance()
	if err != nil {
		return ledger.Verdict{}, err
	}
	e.Bus.Emit(events.Event{Tick: tick, Kind: events.KindTickStart})

	e.phaseWorldWake(tick)
	e.phaseVitals(tick)
	perceptions := e.phasePerception(tick)
	requests, err := e.phaseDecision(ctx, tick, perceptions)
	if err != nil {
		return ledger.Verdict{}, err
	}
	e.phaseExecution(tick, requests)
	return e.phaseTickClose(tick), nil
}

// phaseWorldWake (1/6): resource regeneration, route/structure decay,
// and weather transition.
func (e *Engine) phaseWorldWake(tick uint64) {
	season := e.Clock.Season()
	if !e.SeasonsEnabled {
		season = types.SeasonSummer
	}

	for _, d := range e.Graph.Regenerate(season) {
		if d.Amount <= 0 {
			continue
		}
		world := ledger.WorldEntity()
		loc := ledger.LocationEntity(d.Location)
		_, _ = e.Ledger.Append(tick, types.EntryRegeneration, &world, &loc, d.Resource, emdecimal.NewFromInt(d.Amount), "regeneration", "")
	}

	if e.WeatherEnabled {
		e.rollWeather()
	}
	for _, deg := range e.Graph.DecayRoutes(e.weather) {
		e.Bus.Emit(events.Event{Tick: tick, Kind: events.KindRouteDegraded, Payload: events.RouteDegradedPayload{RouteID: deg.Route, From: deg.From, To: deg.To}})
	}

	if e.StructureDecay {
		for _, destroyed := range e.Structures.DecayStructures() {
			for resource, qty := range destroyed.Resources {
				if qty <= 0 {
					continue
				}
				structEntity := ledger.StructureEntity(destroyed.ID)
				void := ledger.VoidEntity()
				_, _ = e.Ledger.Append(tick, types.EntryDecay, &structEntity, &void, resource, emdecimal.NewFromInt(qty), "structure decayed", "")
			}
			e.Bus.Emit(events.Event{Tick: tick, Kind: events.KindStructureDestroyed, Location: locPtr(destroyed.Location)})
		}
	}

	if e.SeasonsEnabled {
		e.Bus.Emit(events.Event{Tick: tick, Kind: events.KindSeasonChanged, Payload: season})
	}
}

// rollWeather advances weather by a simple seeded Markov step: clear
// weather is the common case, and any non-clear condition tends back
// toward clear within a few ticks. The exact transition table is a
// deliberate simplification (original_source's weather module was not
// part of the retrieved crate set) — see DESIGN.md.
func (e *Engine) rollWeather() {
	roll := e.RNG.IntN(100)
	if e.weather == types.WeatherClear {
		switch {
		case roll < 5:
			e.weather = types.WeatherStorm
		case roll < 15:
			e.weather = types.WeatherRain
		case roll < 20:
			e.weather = types.WeatherFog
		}
		return
	}
	if roll < 60 {
		e.weather = types.WeatherClear
	}
}

// phaseVitals (2/6): age/hunger/thirst/health transition for every
// living agent, in deterministic order, recording deaths.
func (e *Engine) phaseVitals(tick uint64) {
	for _, id := range e.aliveAgentIDs() {
		s := e.Agents[id]
		sheltered := e.Structures.AtLocationOfKind(s.Location, "shelter")
		result := vitals.Apply(s, e.VitalsConfig, sheltered)
		if result.Died {
			e.Identities.RecordDeath(id, tick, result.Cause)
			e.dropInventoryOnDeath(tick, s)
			e.Graph.RemoveAgent(id, s.Location)
			e.Bus.Emit(events.Event{Tick: tick, Kind: events.KindAgentDied, AgentID: agentPtr(id), Payload: events.AgentDiedPayload{Cause: result.Cause}})
		}
	}
}

// dropInventoryOnDeath moves a dead agent's held resources onto its
// location as Drop ledger entries, per spec §4.5 phase 2 ("move dead
// agents' inventories to the location as Drop ledger entries") and §8
// scenario 3 — a dead agent's holdings are never silently discarded.
// Resources are visited in enum order for a deterministic entry
// sequence.
func (e *Engine) dropInventoryOnDeath(tick uint64, s *agent.State) {
	loc, ok := e.Graph.Location(s.Location)
	if !ok {
		return
	}
	for _, r := range types.AllResources {
		qty := s.Inventory.Quantity(r)
		if qty <= 0 {
			continue
		}
		from := ledger.AgentEntity(s.ID)
		to := ledger.LocationEntity(loc.ID)
		if _, err := e.Ledger.Append(tick, types.EntryDrop, &from, &to, r, emdecimal.NewFromInt(qty), "death", ""); err != nil {
			continue
		}
		if n, ok := loc.Resources[r]; ok {
			n.Available += qty
		} else {
			loc.Resources[r] = &worldgraph.ResourceNode{Resource: r, Available: qty}
		}
		s.Inventory.Remove(r, qty)
	}
}

// phasePerception (3/6): assemble every living agent's payload.
func (e *Engine) phasePerception(tick uint64) map[ids.AgentID]perception.Payload {
	pctx := &perception.Context{
		Tick:       tick,
		Graph:      e.Graph,
		Agents:     e.Agents,
		Structures: e.Structures,
		Season:     e.Clock.Season(),
		Weather:    e.weather,
		TimeOfDay:  e.Clock.TimeOfDay(),
	}
	out := make(map[ids.AgentID]perception.Payload, len(e.Agents))
	for _, id := range e.aliveAgentIDs() {
		out[id] = perception.Assemble(pctx, e.Agents[id], nil)
	}
	return out
}

// phaseDecision (4/6): ask the configured decision source for this
// tick's requests.
func (e *Engine) phaseDecision(ctx context.Context, tick uint64, perceptions map[ids.AgentID]perception.Payload) (map[ids.AgentID]actions.Request, error) {
	return e.Decision.Decide(ctx, tick, perceptions)
}

// phaseExecution (5/6): run every living agent's request through the
// 7-stage action pipeline.
func (e *Engine) phaseExecution(tick uint64, requests map[ids.AgentID]actions.Request) []actions.Outcome {
	actx := &actions.Context{
		Tick:                      tick,
		Graph:                     e.Graph,
		Ledger:                    e.Ledger,
		Agents:                    e.Agents,
		Identities:                e.Identities,
		Structures:                e.Structures,
		Season:                    e.Clock.Season(),
		Weather:                   e.weather,
		RNG:                       e.RNG,
		ConflictStrategy:          e.ConflictStrategy,
		AccidentalDiscoveryChance: e.AccidentalDiscoveryChance,
		TeachBaseRate:             e.TeachBaseRate,
	}
	// actions.RunTick iterates ctx.Agents directly to decide which ids
	// default to NoAction, so restrict it to the living set — an agent
	// that died earlier this tick (phaseVitals) must not be offered an
	// implicit NoAction outcome.
	aliveIDs := e.aliveAgentIDs()
	livingAgents := make(map[ids.AgentID]*agent.State, len(aliveIDs))
	for _, id := range aliveIDs {
		livingAgents[id] = e.Agents[id]
	}
	actx.Agents = livingAgents

	return actions.RunTick(actx, e.Bus, requests)
}

// phaseTickClose (6/6): memory compaction, conservation verification,
// and the tick-end summary event.
func (e *Engine) phaseTickClose(tick uint64) ledger.Verdict {
	for _, id := range e.aliveAgentIDs() {
		s := e.Agents[id]
		s.Memories = agent.Compact(s.Memories, tick)
	}

	verdict := e.Ledger.VerifyStrict(tick)
	if !verdict.Balanced {
		e.Bus.Emit(events.Event{Tick: tick, Kind: events.KindLedgerAnomaly, Payload: events.LedgerAnomalyPayload{Message: verdict.Anomaly.Message}})
	}

	e.Bus.Emit(events.Event{Tick: tick, Kind: events.KindTickEnd, Payload: events.TickEndPayload{
		Tick:       tick,
		AliveCount: len(e.aliveAgentIDs()),
		Season:     e.Clock.Season(),
		Weather:    e.weather,
	}})
	return verdict
}

func agentPtr(id ids.AgentID) *ids.AgentID     { return &id }
func locPtr(id ids.LocationID) *ids.LocationID { return &id }
