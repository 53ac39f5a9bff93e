package actions

import (
	"github.com/emergence-sim/emergence/internal/agent"
	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/events"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

// handlerResult tells the caller whether execution actually succeeded
// (a handler can still fail at execution time — e.g. a dice roll — even
// after clearing every validation stage).
type handlerResult struct {
	succeeded bool
}

// execute runs the handler for one accepted request, applying ledger
// entries and state mutations, and emitting events to bus. It is the
// only place in the action pipeline that calls Ledger.Append; the
// orchestrator appends its own regeneration, decay and death-drop entries.
func execute(ctx *Context, bus *events.Bus, id ids.AgentID, req Request) handlerResult {
	a := ctx.Agents[id]
	a.Energy -= energyCost(req.Type)

	switch req.Type {
	case types.ActionNoAction:
		return handlerResult{succeeded: true}

	case types.ActionMove:
		return executeMove(ctx, bus, a, req)

	case types.ActionGather:
		return executeGather(ctx, bus, a, req)

	case types.ActionFarm:
		return executeGather(ctx, bus, a, req) // farming draws from the same location resource pool, bonus handled via skill XP below

	case types.ActionEat:
		return executeEat(ctx, bus, a, req)

	case types.ActionDrink:
		return executeDrink(ctx, bus, a, req)

	case types.ActionRest:
		a.Resting = true
		return handlerResult{succeeded: true}

	case types.ActionDrop:
		return executeDrop(ctx, bus, a, req)

	case types.ActionPickup:
		return executePickup(ctx, bus, a, req)

	case types.ActionTransfer, types.ActionTrade:
		return executeTransfer(ctx, bus, a, req)

	case types.ActionTheft:
		return executeTheft(ctx, bus, a, req)

	case types.ActionTeach:
		return executeTeach(ctx, bus, a, req)

	case types.ActionBuild:
		return executeBuild(ctx, bus, a, req)

	case types.ActionCraft:
		return executeCraft(ctx, bus, a, req)

	case types.ActionReproduce:
		return executeReproduce(ctx, bus, a, req)

	case types.ActionCommunicate:
		return executeCommunicate(ctx, bus, a, req)

	case types.ActionCombat:
		return executeCombat(ctx, bus, a, req)

	default:
		return handlerResult{succeeded: false}
	}
}

func executeMove(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	dest := *req.TargetLocation
	route, _ := ctx.Graph.RouteBetween(a.Location, dest)

	if route.TickCost > 1 {
		if a.Destination == nil || *a.Destination != dest {
			a.Destination = &dest
			a.TravelProgress = 0
		}
		a.TravelProgress++
		if int64(a.TravelProgress) < route.TickCost {
			return handlerResult{succeeded: true}
		}
	}

	if err := ctx.Graph.MoveAgent(a.ID, a.Location, dest); err != nil {
		return handlerResult{succeeded: false}
	}
	a.Location = dest
	a.Destination = nil
	a.TravelProgress = 0
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindActionSucceeded, AgentID: &a.ID, Location: &dest})
	return handlerResult{succeeded: true}
}

func executeGather(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	loc, _ := ctx.Graph.Location(a.Location)
	node := loc.Resources[req.Resource]

	bonus := int64(agent.GatherYieldBonus(a.Skills.Level(agent.SkillGathering)))
	requested := req.Quantity + bonus // skill lets a gather reach further into the same pool, never beyond it
	amount := requested
	if amount > node.Available {
		amount = node.Available
	}
	if amount <= 0 {
		return handlerResult{succeeded: false}
	}
	node.Available -= amount
	a.Inventory.Add(req.Resource, amount)

	_, err := ctx.Ledger.Append(ctx.Tick, types.EntryGather, locPtr(loc.ID), agentPtr(a.ID), req.Resource, emdecimal.NewFromInt(amount), "gather", "")
	if err != nil {
		return handlerResult{succeeded: false}
	}
	a.Skills.AwardXP(agent.SkillGathering, 10)
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindResourceGathered, AgentID: &a.ID})
	return handlerResult{succeeded: true}
}

func executeEat(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	if !a.Inventory.Remove(req.Resource, req.Quantity) {
		return handlerResult{succeeded: false}
	}
	if _, err := ctx.Ledger.Append(ctx.Tick, types.EntryConsume, agentPtr(a.ID), voidPtr(), req.Resource, emdecimal.NewFromInt(req.Quantity), "eat", ""); err != nil {
		return handlerResult{succeeded: false}
	}
	a.Hunger -= int(req.Quantity) * 20
	if a.Hunger < 0 {
		a.Hunger = 0
	}
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindResourceConsumed, AgentID: &a.ID})
	return handlerResult{succeeded: true}
}

func executeDrink(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	if !a.Inventory.Remove(req.Resource, req.Quantity) {
		return handlerResult{succeeded: false}
	}
	if _, err := ctx.Ledger.Append(ctx.Tick, types.EntryConsume, agentPtr(a.ID), voidPtr(), req.Resource, emdecimal.NewFromInt(req.Quantity), "drink", ""); err != nil {
		return handlerResult{succeeded: false}
	}
	a.Thirst -= int(req.Quantity) * 20
	if a.Thirst < 0 {
		a.Thirst = 0
	}
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindResourceConsumed, AgentID: &a.ID})
	return handlerResult{succeeded: true}
}

func executeDrop(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	if !a.Inventory.Remove(req.Resource, req.Quantity) {
		return handlerResult{succeeded: false}
	}
	loc, _ := ctx.Graph.Location(a.Location)
	if _, err := ctx.Ledger.Append(ctx.Tick, types.EntryDrop, agentPtr(a.ID), locPtr(loc.ID), req.Resource, emdecimal.NewFromInt(req.Quantity), "drop", ""); err != nil {
		a.Inventory.Add(req.Resource, req.Quantity)
		return handlerResult{succeeded: false}
	}
	if n, ok := loc.Resources[req.Resource]; ok {
		n.Available += req.Quantity
	} else {
		loc.Resources[req.Resource] = &worldgraph.ResourceNode{Resource: req.Resource, Available: req.Quantity}
	}
	return handlerResult{succeeded: true}
}

func executePickup(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	loc, _ := ctx.Graph.Location(a.Location)
	node, ok := loc.Resources[req.Resource]
	if !ok || node.Available < req.Quantity {
		return handlerResult{succeeded: false}
	}
	node.Available -= req.Quantity
	a.Inventory.Add(req.Resource, req.Quantity)
	if _, err := ctx.Ledger.Append(ctx.Tick, types.EntryPickup, locPtr(loc.ID), agentPtr(a.ID), req.Resource, emdecimal.NewFromInt(req.Quantity), "pickup", ""); err != nil {
		return handlerResult{succeeded: false}
	}
	return handlerResult{succeeded: true}
}

func executeTransfer(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	target := ctx.Agents[*req.TargetAgent]
	if !a.Inventory.Remove(req.Resource, req.Quantity) {
		return handlerResult{succeeded: false}
	}
	entryType := types.EntryTransfer
	if _, err := ctx.Ledger.Append(ctx.Tick, entryType, agentPtr(a.ID), agentPtr(target.ID), req.Resource, emdecimal.NewFromInt(req.Quantity), req.Type.String(), ""); err != nil {
		a.Inventory.Add(req.Resource, req.Quantity) // roll back
		return handlerResult{succeeded: false}
	}
	target.Inventory.Add(req.Resource, req.Quantity)
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindTradeCompleted, AgentID: &a.ID})
	return handlerResult{succeeded: true}
}

func executeTheft(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	victim := ctx.Agents[*req.TargetAgent]
	thiefIdent, _ := ctx.Identities.Get(a.ID)
	victimIdent, _ := ctx.Identities.Get(victim.ID)

	chance := theftSuccessChance(victim, thiefIdent.Personality, victimIdent.Personality, a.RelationshipWith(victim.ID))
	roll := ctx.RNG.IntN(100)
	if roll >= chance {
		if ctx.RNG.IntN(100) < theftDetectionRate {
			victim.AdjustRelationship(a.ID, theftRelationshipDelta())
		}
		bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindTheftFailed, AgentID: &a.ID})
		return handlerResult{succeeded: false}
	}

	amount := req.Quantity
	if held := victim.Inventory.Quantity(req.Resource); amount > held {
		amount = held
	}
	if amount <= 0 {
		return handlerResult{succeeded: false}
	}
	victim.Inventory.Remove(req.Resource, amount)
	a.Inventory.Add(req.Resource, amount)
	if _, err := ctx.Ledger.Append(ctx.Tick, types.EntryTheft, agentPtr(victim.ID), agentPtr(a.ID), req.Resource, emdecimal.NewFromInt(amount), "theft", ""); err != nil {
		victim.Inventory.Add(req.Resource, amount)
		a.Inventory.Remove(req.Resource, amount)
		return handlerResult{succeeded: false}
	}
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindTheftOccurred, AgentID: &a.ID})
	return handlerResult{succeeded: true}
}

func executeTeach(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	student := ctx.Agents[*req.TargetAgent]
	rate := agent.TeachSuccessRate(ctx.TeachBaseRate, a.Skills.Level(req.Skill))
	if ctx.RNG.IntN(100) >= rate {
		return handlerResult{succeeded: false}
	}
	student.Skills.AwardXP(req.Skill, 50)
	a.Skills.AwardXP(agent.SkillTeaching, 5)
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindKnowledgeTaught, AgentID: &a.ID})
	return handlerResult{succeeded: true}
}

func executeBuild(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	var structID ids.StructureID
	if req.TargetStructure != nil {
		structID = *req.TargetStructure
	} else {
		newStruct := worldgraph.NewStructure(a.Location, a.ID, req.NewStructureKind, req.NewStructureCap, 100, 1)
		ctx.Structures.Add(newStruct)
		structID = newStruct.ID
		bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindStructureBuilt, AgentID: &a.ID})
	}

	s, _ := ctx.Structures.Get(structID)
	if !a.Inventory.Remove(req.Resource, req.Quantity) {
		return handlerResult{succeeded: false}
	}
	if _, err := ctx.Ledger.Append(ctx.Tick, types.EntryBuild, agentPtr(a.ID), structurePtr(s.ID), req.Resource, emdecimal.NewFromInt(req.Quantity), "build", ""); err != nil {
		a.Inventory.Add(req.Resource, req.Quantity)
		return handlerResult{succeeded: false}
	}
	s.Resources[req.Resource] += req.Quantity
	a.Skills.AwardXP(agent.SkillBuilding, 15)
	return handlerResult{succeeded: true}
}

func executeCraft(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	s, _ := ctx.Structures.Get(*req.TargetStructure)
	if s.Resources[req.Resource] < req.Quantity {
		return handlerResult{succeeded: false}
	}
	if _, err := ctx.Ledger.Append(ctx.Tick, types.EntrySalvage, structurePtr(s.ID), agentPtr(a.ID), req.Resource, emdecimal.NewFromInt(req.Quantity), "craft", ""); err != nil {
		return handlerResult{succeeded: false}
	}
	s.Resources[req.Resource] -= req.Quantity
	// The tool itself is not ledger-tracked: it is a manufactured good,
	// not a movement of an existing resource pool, and sits outside the
	// conservation check's scope (only the raw-material withdrawal above
	// is a tracked movement).
	a.Inventory.Add(types.ResourceTool, 1)
	a.Skills.AwardXP(agent.SkillBuilding, 8)
	return handlerResult{succeeded: true}
}

func executeReproduce(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	partner := ctx.Agents[*req.TargetAgent]
	partnerIdent, _ := ctx.Identities.Get(partner.ID)
	selfIdent, _ := ctx.Identities.Get(a.ID)

	childID := ids.NewAgentID()
	blended := types.Blend(selfIdent.Personality, partnerIdent.Personality)
	generation := selfIdent.Generation
	if partnerIdent.Generation > generation {
		generation = partnerIdent.Generation
	}
	generation++

	childIdent := &agent.Identity{
		ID:          childID,
		BirthTick:   ctx.Tick,
		ParentA:     identityPtr(a.ID),
		ParentB:     identityPtr(partner.ID),
		Generation:  generation,
		Personality: blended,
	}
	ctx.Identities.Register(childIdent)

	childState := agent.NewState(childID, a.Location, a.CarryCapacity, a.LifespanTicks)
	ctx.Agents[childID] = childState
	if err := ctx.Graph.PlaceAgent(childID, a.Location); err != nil {
		return handlerResult{succeeded: false}
	}

	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindAgentBorn, AgentID: &childID})
	return handlerResult{succeeded: true}
}

func executeCommunicate(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	target := ctx.Agents[*req.TargetAgent]
	target.Memories = append(target.Memories, agent.Memory{
		Tick:            ctx.Tick,
		Summary:         req.Message,
		Tier:            agent.MemoryImmediate,
		EmotionalWeight: emdecimal.NewFromFloatSafe(0.1),
		Involved:        []ids.AgentID{a.ID},
	})
	return handlerResult{succeeded: true}
}

func executeCombat(ctx *Context, bus *events.Bus, a *agent.State, req Request) handlerResult {
	target := ctx.Agents[*req.TargetAgent]
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindCombatInitiated, AgentID: &a.ID})

	attackerSkill := a.Skills.Level(agent.SkillCombat)
	defenderSkill := target.Skills.Level(agent.SkillCombat)
	roll := ctx.RNG.IntN((attackerSkill + 1) + (defenderSkill + 1))
	loser := target
	if roll >= attackerSkill+1 {
		loser = a
	}
	loser.Health -= 15
	if loser.Health < 0 {
		loser.Health = 0
	}
	bus.Emit(events.Event{Tick: ctx.Tick, Kind: events.KindCombatResolved, AgentID: &a.ID})
	return handlerResult{succeeded: true}
}

func identityPtr(id ids.AgentID) *ids.AgentID { return &id }
func agentPtr(id ids.AgentID) *ledger.Entity {
	e := ledger.AgentEntity(id)
	return &e
}
func locPtr(id ids.LocationID) *ledger.Entity {
	e := ledger.LocationEntity(id)
	return &e
}
func structurePtr(id ids.StructureID) *ledger.Entity {
	e := ledger.StructureEntity(id)
	return &e
}
func voidPtr() *ledger.Entity {
	e := ledger.VoidEntity()
	return &e
}
