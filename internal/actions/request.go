// Package actions implements the seven-stage action validation pipeline,
// the per-action execution handlers, and the conflict resolver (spec
// C5). The pipeline never executes an action as a side effect of
// validating it — every request runs the full gate before any handler
// touches ledger or world state, and a request that fails any stage
// never reaches execution.
package actions

import (
	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// Request is the action an agent submits for a single tick, as returned
// by the decision source (spec C8). Fields unused by the given Type are
// ignored.
type Request struct {
	Agent ids.AgentID
	Type  types.ActionType

	TargetLocation  *ids.LocationID // Move: the adjacent location to travel toward
	TargetAgent     *ids.AgentID    // Trade, Transfer, Theft, Combat, Teach, Communicate, Reproduce
	TargetStructure *ids.StructureID // Build (existing), Craft, Salvage

	Resource types.Resource // Gather, Eat, Drink, Trade, Transfer, Drop, Pickup
	Quantity int64

	Skill   agent.SkillName // Teach: the skill taught
	Message string          // Communicate: free-text payload, opaque to the core

	NewStructureKind string // Build: kind of a brand new structure, when TargetStructure is nil
	NewStructureCap  int64  // Build: capacity of a brand new structure
}

// NoActionRequest returns the default request substituted for any agent
// absent from the decision source's response map (spec C8 contract).
func NoActionRequest(a ids.AgentID) Request {
	return Request{Agent: a, Type: types.ActionNoAction}
}

// Outcome records the pipeline's final disposition for one agent's
// request.
type Outcome struct {
	Agent    ids.AgentID
	Request  Request
	Accepted bool
	Reason   types.RejectionReason
}
