// Package decision defines the narrow synchronous boundary between the
// simulation core and whatever chooses actions for agents — a scripted
// test harness, a rules engine, or an LLM-backed policy living outside
// this module. Grounded on the teacher's internal/llm.Client: a small
// interface the orchestrator calls once per tick and does not otherwise
// know or care how it is implemented (internal/llm/client.go's
// Enabled/Complete split between "is a real backend wired up" and "make
// the call"). The missing-entry-means-NoAction contract is grounded on
// original_source/crates/emergence-engine/src/nats_decision.rs, which
// treats a decision source that times out or drops an agent the same
// way: that agent simply does nothing this tick.
package decision

import (
	"context"

	"github.com/emergence-sim/emergence/internal/actions"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/perception"
)

// Source is anything that can turn this tick's perceptions into action
// requests. Implementations must be safe to call once per tick with a
// fresh perception map; they do not need to be safe for concurrent
// calls. A Source may omit any agent from its returned map — the
// orchestrator (via actions.RunTick) treats an absent agent as
// ActionNoAction, so a Source is free to answer only for the agents it
// has an opinion about.
type Source interface {
	Decide(ctx context.Context, tick uint64, perceptions map[ids.AgentID]perception.Payload) (map[ids.AgentID]actions.Request, error)
}

// NoActionSource always returns an empty decision map, so every agent
// defaults to ActionNoAction. Useful as a baseline for vitals-only
// integration tests and as the fallback when no real Source is
// configured.
type NoActionSource struct{}

// Decide implements Source.
func (NoActionSource) Decide(context.Context, uint64, map[ids.AgentID]perception.Payload) (map[ids.AgentID]actions.Request, error) {
	return map[ids.AgentID]actions.Request{}, nil
}

// ScriptFunc produces one agent's request for one tick, given its
// perception. Returning (zero Request, false) omits the agent from the
// tick's decision map (falls back to NoAction).
type ScriptFunc func(tick uint64, p perception.Payload) (actions.Request, bool)

// Scripted is a deterministic test double: every agent is driven by
// the same ScriptFunc, evaluated independently per agent per tick.
// Grounded on the teacher's test fixtures
// (internal/engine/tick_test.go's use of small closures to script
// agent behavior across ticks) generalized into a reusable Source.
type Scripted struct {
	Fn ScriptFunc
}

// NewScripted returns a Source driven by fn.
func NewScripted(fn ScriptFunc) *Scripted {
	return &Scripted{Fn: fn}
}

// Decide implements Source.
func (s *Scripted) Decide(_ context.Context, tick uint64, perceptions map[ids.AgentID]perception.Payload) (map[ids.AgentID]actions.Request, error) {
	out := make(map[ids.AgentID]actions.Request, len(perceptions))
	for id, p := range perceptions {
		req, ok := s.Fn(tick, p)
		if !ok {
			continue
		}
		out[id] = req
	}
	return out, nil
}

// Fixed is a test double that replays a pre-recorded plan: a map from
// tick to the full per-agent request map for that tick. Ticks absent
// from Plan produce an empty decision map (every agent defaults to
// NoAction).
type Fixed struct {
	Plan map[uint64]map[ids.AgentID]actions.Request
}

// NewFixed returns a Source that replays plan verbatim, ignoring the
// perceptions it is handed — useful for pipeline/orchestrator tests
// that want to drive a precise sequence of actions without scripting
// perception-dependent logic.
func NewFixed(plan map[uint64]map[ids.AgentID]actions.Request) *Fixed {
	return &Fixed{Plan: plan}
}

// Decide implements Source.
func (f *Fixed) Decide(_ context.Context, tick uint64, _ map[ids.AgentID]perception.Payload) (map[ids.AgentID]actions.Request, error) {
	if reqs, ok := f.Plan[tick]; ok {
		return reqs, nil
	}
	return map[ids.AgentID]actions.Request{}, nil
}
