// Package events defines the typed event stream the core emits at tick
// close (spec §6). Grounded on the teacher's Simulation.EmitEvent /
// Subscribe pub-sub pattern (internal/engine/simulation.go), generalized
// from the teacher's single free-text Event to the spec's closed
// catalog of typed events with an optional agent/location id and a
// typed payload.
package events

import (
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// Kind is the closed catalog of event types the core can emit.
type Kind string

const (
	KindTickStart             Kind = "TickStart"
	KindTickEnd               Kind = "TickEnd"
	KindAgentBorn             Kind = "AgentBorn"
	KindAgentDied             Kind = "AgentDied"
	KindActionSubmitted       Kind = "ActionSubmitted"
	KindActionSucceeded       Kind = "ActionSucceeded"
	KindActionRejected        Kind = "ActionRejected"
	KindResourceGathered      Kind = "ResourceGathered"
	KindResourceConsumed      Kind = "ResourceConsumed"
	KindTradeCompleted        Kind = "TradeCompleted"
	KindStructureBuilt        Kind = "StructureBuilt"
	KindStructureDestroyed    Kind = "StructureDestroyed"
	KindStructureRepaired     Kind = "StructureRepaired"
	KindRouteImproved         Kind = "RouteImproved"
	KindRouteDegraded         Kind = "RouteDegraded"
	KindLocationDiscovered    Kind = "LocationDiscovered"
	KindKnowledgeDiscovered   Kind = "KnowledgeDiscovered"
	KindKnowledgeTaught       Kind = "KnowledgeTaught"
	KindWeatherChanged        Kind = "WeatherChanged"
	KindSeasonChanged         Kind = "SeasonChanged"
	KindTheftOccurred         Kind = "TheftOccurred"
	KindTheftFailed           Kind = "TheftFailed"
	KindCombatInitiated       Kind = "CombatInitiated"
	KindCombatResolved        Kind = "CombatResolved"
	KindLedgerAnomaly         Kind = "LedgerAnomaly"
)

// Event is a single occurrence the core emits at tick close.
type Event struct {
	Tick     uint64
	Kind     Kind
	AgentID  *ids.AgentID
	Location *ids.LocationID
	Payload  any
}

// TickEndPayload is the typed payload for KindTickEnd: a per-tick
// summary (spec §4.5 phase 6).
type TickEndPayload struct {
	Tick            uint64
	AliveCount      int
	Season          types.Season
	Weather         types.Weather
	ActionTotals    map[types.ActionType]int
}

// ActionRejectedPayload carries the rejection reason for KindActionRejected.
type ActionRejectedPayload struct {
	Action types.ActionType
	Reason types.RejectionReason
}

// LedgerAnomalyPayload carries the anomaly detail for KindLedgerAnomaly.
type LedgerAnomalyPayload struct {
	Message string
}

// AgentDiedPayload carries the cause of death for KindAgentDied.
type AgentDiedPayload struct {
	Cause types.DeathCause
}

// RouteDegradedPayload carries the path-type transition for KindRouteDegraded.
type RouteDegradedPayload struct {
	RouteID  ids.RouteID
	From, To types.PathType
}

// Sink receives events as the core emits them. Implementations must not
// block the tick loop; the reference Bus implementation below buffers
// per-subscriber and drops on a full buffer, matching the teacher's
// EmitEvent behavior for slow consumers.
type Sink interface {
	Emit(e Event)
}

// Bus is the in-process event sink the orchestrator writes to and that
// external observers (outside the scope of this core) subscribe to.
type Bus struct {
	log  []Event
	subs map[int]chan Event
	next int
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: map[int]chan Event{}}
}

// Emit appends e to the log and broadcasts to every subscriber.
func (b *Bus) Emit(e Event) {
	b.log = append(b.log, e)
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Slow consumer — drop rather than block the tick loop.
		}
	}
}

// Subscribe registers a new buffered subscriber and returns its id and
// channel.
func (b *Bus) Subscribe(bufferSize int) (int, <-chan Event) {
	id := b.next
	b.next++
	ch := make(chan Event, bufferSize)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes and closes a subscriber's channel.
func (b *Bus) Unsubscribe(id int) {
	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// Log returns every event ever emitted, in emission order.
func (b *Bus) Log() []Event { return b.log }

// Since returns every event emitted at or after fromTick, in order —
// used to build the "compacted event log since the last snapshot" the
// external persistence interface expects (spec §6).
func (b *Bus) Since(fromTick uint64) []Event {
	var out []Event
	for _, e := range b.log {
		if e.Tick >= fromTick {
			out = append(out, e)
		}
	}
	return out
}
