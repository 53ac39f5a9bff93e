package actions

import (
	"github.com/emergence-sim/emergence/internal/events"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// RunTick runs the full seven-stage pipeline over requests — one per
// living agent, with any agent missing from the map treated as
// ActionNoAction per the decision-source contract (spec C8) — and
// executes every request that is ultimately accepted. It returns one
// Outcome per agent in ctx.Agents, in deterministic agent-id order.
//
// Stages 1-6 run independently per agent; stage 7 (conflict resolution)
// only sees requests that cleared stages 1-6, and only execution
// touches ledger or world state — a request rejected at any stage never
// mutates anything.
func RunTick(ctx *Context, bus *events.Bus, requests map[ids.AgentID]Request) []Outcome {
	normalized := make(map[ids.AgentID]Request, len(ctx.Agents))
	for id := range ctx.Agents {
		if req, ok := requests[id]; ok {
			normalized[id] = req
		} else {
			normalized[id] = NoActionRequest(id)
		}
	}

	preStage7 := make(map[ids.AgentID]stageResult, len(normalized))
	candidates := map[ids.AgentID]Request{}
	for _, id := range orderedAgentIDs(normalized) {
		req := normalized[id]
		a := ctx.Agents[id]
		r := runSingleAgentStages(ctx, a, req)
		preStage7[id] = r
		if r.ok {
			candidates[id] = req
		}
	}

	conflictResults := resolveConflicts(ctx, candidates)

	outcomes := make([]Outcome, 0, len(normalized))
	for _, id := range orderedAgentIDs(normalized) {
		req := normalized[id]
		pre := preStage7[id]
		final := pre
		if pre.ok {
			final = conflictResults[id]
		}

		if !final.ok {
			bus.Emit(events.Event{
				Tick:    ctx.Tick,
				Kind:    events.KindActionRejected,
				AgentID: idPtr(id),
				Payload: events.ActionRejectedPayload{Action: req.Type, Reason: final.reason},
			})
			outcomes = append(outcomes, Outcome{Agent: id, Request: req, Accepted: false, Reason: final.reason})
			continue
		}

		hr := execute(ctx, bus, id, req)
		outcomes = append(outcomes, Outcome{Agent: id, Request: req, Accepted: hr.succeeded, Reason: rejectionFor(hr)})
	}

	return outcomes
}

func rejectionFor(hr handlerResult) types.RejectionReason {
	if hr.succeeded {
		return types.RejectNone
	}
	return types.RejectInfeasible
}

func idPtr(id ids.AgentID) *ids.AgentID { return &id }
