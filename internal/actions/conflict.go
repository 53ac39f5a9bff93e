package actions

import (
	"sort"

	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// contentionKey identifies the shared, finite pool a request draws
// from, if any. Requests with the same key compete for a bound this
// tick; requests with no key never enter conflict resolution.
type contentionKey struct {
	kind       string
	location   ids.LocationID
	resource   types.Resource
	structure  ids.StructureID
}

func requestContentionKey(a *agent.State, req Request) (contentionKey, bool) {
	switch req.Type {
	case types.ActionGather, types.ActionFarm:
		return contentionKey{kind: "gather", location: a.Location, resource: req.Resource}, true
	case types.ActionMove:
		return contentionKey{kind: "move", location: *req.TargetLocation}, true
	case types.ActionBuild:
		if req.TargetStructure != nil {
			return contentionKey{kind: "build", structure: *req.TargetStructure}, true
		}
	}
	return contentionKey{}, false
}

// conflictSkill names the skill used to weight a contested action under
// the random-weighted-by-skill strategy.
func conflictSkill(req Request) agent.SkillName {
	switch req.Type {
	case types.ActionGather, types.ActionFarm:
		return agent.SkillFarming
	case types.ActionBuild:
		return agent.SkillBuilding
	default:
		return agent.SkillGathering
	}
}

// resolveConflicts takes the subset of requests that passed stages 1-6
// and, for every contested pool, admits contenders in the configured
// order until the pool's bound is exhausted; the rest are marked
// RejectConflictLost. Requests with no contention key (or whose pool has
// only one contender) are admitted unconditionally — stage 7 never
// rejects an action nothing else contends for.
func resolveConflicts(ctx *Context, candidates map[ids.AgentID]Request) map[ids.AgentID]stageResult {
	results := make(map[ids.AgentID]stageResult, len(candidates))

	groups := map[contentionKey][]ids.AgentID{}
	var keyOrder []contentionKey
	for _, id := range orderedAgentIDs(candidates) {
		req := candidates[id]
		a := ctx.Agents[id]
		key, contended := requestContentionKey(a, req)
		if !contended {
			results[id] = pass()
			continue
		}
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], id)
	}

	for _, key := range keyOrder {
		contenders := groups[key]
		if len(contenders) == 1 {
			results[contenders[0]] = pass()
			continue
		}
		ordered := orderContenders(ctx, contenders, conflictSkill(candidates[contenders[0]]))
		bound := poolBound(ctx, key)
		for _, id := range ordered {
			req := candidates[id]
			cost := requestPoolUsage(req)
			if bound >= cost {
				bound -= cost
				results[id] = pass()
			} else {
				results[id] = fail(types.RejectConflictLost)
			}
		}
	}

	return results
}

// requestPoolUsage returns how much of the contended pool one request
// consumes if admitted.
func requestPoolUsage(req Request) int64 {
	switch req.Type {
	case types.ActionGather, types.ActionFarm:
		return req.Quantity
	default:
		return 1
	}
}

// poolBound returns the remaining capacity of the contended pool this
// tick, before any contender is admitted.
func poolBound(ctx *Context, key contentionKey) int64 {
	switch key.kind {
	case "gather":
		loc, ok := ctx.Graph.Location(key.location)
		if !ok {
			return 0
		}
		node, ok := loc.Resources[key.resource]
		if !ok {
			return 0
		}
		return node.Available
	case "move":
		loc, ok := ctx.Graph.Location(key.location)
		if !ok {
			return 0
		}
		return int64(loc.Capacity - loc.OccupantCount())
	case "build":
		s, ok := ctx.Structures.Get(key.structure)
		if !ok {
			return 0
		}
		return s.Capacity - s.TotalStored()
	default:
		return 0
	}
}

// orderContenders sorts contenders per the configured conflict
// strategy. FirstComeFirstServed falls back to ascending agent-id
// order, since the core has no true submission-time ordering within a
// tick — "first come" is operationalized as a deterministic,
// seed-independent order.
func orderContenders(ctx *Context, contenders []ids.AgentID, skill agent.SkillName) []ids.AgentID {
	out := append([]ids.AgentID{}, contenders...)
	switch ctx.ConflictStrategy {
	case types.ConflictLowestEnergyFirst:
		sort.Slice(out, func(i, j int) bool {
			ei, ej := ctx.Agents[out[i]].Energy, ctx.Agents[out[j]].Energy
			if ei != ej {
				return ei < ej
			}
			return out[i].String() < out[j].String()
		})
	case types.ConflictRandomWeightedBySkill:
		out = weightedDraw(ctx, out, skill)
	default: // ConflictFirstComeFirstServed
		sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	}
	return out
}

// weightedDraw draws contenders without replacement, weighted by
// (skill level + 1), using ctx.RNG — the single seeded PRNG threaded
// through the whole tick, so the draw is reproducible for a fixed seed.
// Contenders are pre-sorted by id so the draw itself is the only source
// of nondeterminism, and that source is the seeded RNG.
func weightedDraw(ctx *Context, contenders []ids.AgentID, skill agent.SkillName) []ids.AgentID {
	remaining := append([]ids.AgentID{}, contenders...)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].String() < remaining[j].String() })

	out := make([]ids.AgentID, 0, len(remaining))
	for len(remaining) > 0 {
		weights := make([]int, len(remaining))
		total := 0
		for i, id := range remaining {
			w := ctx.Agents[id].Skills.Level(skill) + 1
			weights[i] = w
			total += w
		}
		pick := ctx.RNG.IntN(total)
		idx := 0
		acc := weights[0]
		for pick >= acc {
			idx++
			acc += weights[idx]
		}
		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out
}
