package actions

import (
	"math/rand/v2"

	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

// Context bundles the world components the pipeline and handlers need
// to validate and execute a tick's batch of requests. It is built fresh
// by the orchestrator (C9) each tick from the single authoritative
// world state and handed to RunTick.
type Context struct {
	Tick uint64

	Graph      *worldgraph.Graph
	Ledger     *ledger.Ledger
	Agents     map[ids.AgentID]*agent.State
	Identities *agent.Registry
	Structures *worldgraph.StructureRegistry

	Season  types.Season
	Weather types.Weather

	RNG *rand.Rand

	ConflictStrategy          types.ConflictStrategy
	AccidentalDiscoveryChance int // percent, 0-100
	TeachBaseRate             int // percent, 0-100
}

// energyCost gives the fixed energy price of attempting an action.
// Stage 2 checks it right after the syntax stage — an agent without
// enough energy to even attempt the action is rejected before the
// pipeline spends further work on it — and execute deducts it.
func energyCost(t types.ActionType) int {
	switch t {
	case types.ActionNoAction, types.ActionRest:
		return 0
	case types.ActionEat, types.ActionDrink, types.ActionDrop, types.ActionPickup:
		return 2
	case types.ActionCommunicate:
		return 1
	case types.ActionMove:
		return 5
	case types.ActionTrade, types.ActionTransfer:
		return 3
	case types.ActionTeach:
		return 5
	case types.ActionGather:
		return 10
	case types.ActionFarm:
		return 12
	case types.ActionCraft:
		return 15
	case types.ActionTheft:
		return 15
	case types.ActionBuild:
		return 20
	case types.ActionReproduce:
		return 20
	case types.ActionCombat:
		return 25
	default:
		return 0
	}
}
