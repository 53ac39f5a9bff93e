// Package types holds the closed enumerations and small value types
// shared across every component of the simulation core: resources,
// action kinds, event kinds, eras, seasons, weather, path types, and
// entity-type tags used by the ledger.
package types

// Resource is the closed enumeration of movable resource kinds, grouped
// into four tiers: survival, material, equipment, abstract.
type Resource uint8

const (
	ResourceWater Resource = iota
	ResourceBerry
	ResourceFish
	ResourceRoot
	ResourceWood
	ResourceStone
	ResourceFiber
	ResourceClay
	ResourceHide
	ResourceOre
	ResourceMetal
	ResourceTool
	ResourceAdvancedTool
	ResourceCurrencyToken
	ResourceWrittenRecord

	numResources
)

// AllResources lists every resource kind in enum order, for deterministic
// iteration (e.g. regeneration, ledger balance tables).
var AllResources = func() []Resource {
	out := make([]Resource, 0, int(numResources))
	for r := Resource(0); r < numResources; r++ {
		out = append(out, r)
	}
	return out
}()

func (r Resource) String() string {
	switch r {
	case ResourceWater:
		return "water"
	case ResourceBerry:
		return "berry"
	case ResourceFish:
		return "fish"
	case ResourceRoot:
		return "root"
	case ResourceWood:
		return "wood"
	case ResourceStone:
		return "stone"
	case ResourceFiber:
		return "fiber"
	case ResourceClay:
		return "clay"
	case ResourceHide:
		return "hide"
	case ResourceOre:
		return "ore"
	case ResourceMetal:
		return "metal"
	case ResourceTool:
		return "tool"
	case ResourceAdvancedTool:
		return "advanced_tool"
	case ResourceCurrencyToken:
		return "currency_token"
	case ResourceWrittenRecord:
		return "written_record"
	default:
		return "unknown_resource"
	}
}

// ParseResource recovers a Resource from its String() form, used to
// read resource names out of YAML config (starting wallets) and
// persisted JSON map keys.
func ParseResource(s string) (Resource, bool) {
	for _, r := range AllResources {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// IsFood reports whether the resource can be eaten to reduce hunger.
func (r Resource) IsFood() bool {
	switch r {
	case ResourceBerry, ResourceFish, ResourceRoot:
		return true
	default:
		return false
	}
}

// IsDrink reports whether the resource can be drunk to reduce thirst.
func (r Resource) IsDrink() bool {
	return r == ResourceWater
}

// ActionType is the closed catalog of action kinds the pipeline knows
// how to validate and execute. Agents may submit freeform action types
// outside this catalog; the pipeline rejects those with Infeasible or
// NeedsEvaluation (see RejectionReason).
type ActionType uint8

const (
	ActionNoAction ActionType = iota
	ActionMove
	ActionGather
	ActionEat
	ActionDrink
	ActionRest
	ActionBuild
	ActionCraft
	ActionTrade
	ActionTransfer
	ActionTheft
	ActionCombat
	ActionCommunicate
	ActionTeach
	ActionFarm
	ActionReproduce
	ActionDrop
	ActionPickup
)

func (a ActionType) String() string {
	switch a {
	case ActionNoAction:
		return "no_action"
	case ActionMove:
		return "move"
	case ActionGather:
		return "gather"
	case ActionEat:
		return "eat"
	case ActionDrink:
		return "drink"
	case ActionRest:
		return "rest"
	case ActionBuild:
		return "build"
	case ActionCraft:
		return "craft"
	case ActionTrade:
		return "trade"
	case ActionTransfer:
		return "transfer"
	case ActionTheft:
		return "theft"
	case ActionCombat:
		return "combat"
	case ActionCommunicate:
		return "communicate"
	case ActionTeach:
		return "teach"
	case ActionFarm:
		return "farm"
	case ActionReproduce:
		return "reproduce"
	case ActionDrop:
		return "drop"
	case ActionPickup:
		return "pickup"
	default:
		return "unknown_action"
	}
}

// Era tags the current civilizational era, set externally by the
// orchestrator/runner when emergent conditions are met. The core never
// derives an era on its own; see spec C6.
type Era uint8

const (
	EraPrimitive Era = iota
	EraAgricultural
	EraIndustrial
	EraInformation
)

func (e Era) String() string {
	switch e {
	case EraPrimitive:
		return "primitive"
	case EraAgricultural:
		return "agricultural"
	case EraIndustrial:
		return "industrial"
	case EraInformation:
		return "information"
	default:
		return "unknown_era"
	}
}

// Season is one of the four annual seasons, used to modulate resource
// regeneration rates.
type Season uint8

const (
	SeasonSpring Season = iota
	SeasonSummer
	SeasonAutumn
	SeasonWinter
)

func (s Season) String() string {
	switch s {
	case SeasonSpring:
		return "spring"
	case SeasonSummer:
		return "summer"
	case SeasonAutumn:
		return "autumn"
	case SeasonWinter:
		return "winter"
	default:
		return "unknown_season"
	}
}

// RegenRatio returns the integer-ratio season
// modifier applied to a resource node's base regen rate: spring 5/4,
// summer 1/1, autumn 3/4, winter 1/4. Integer arithmetic only — no
// floats, per spec §9.
func (s Season) RegenRatio() (numerator, denominator int64) {
	switch s {
	case SeasonSpring:
		return 5, 4
	case SeasonSummer:
		return 1, 1
	case SeasonAutumn:
		return 3, 4
	case SeasonWinter:
		return 1, 4
	default:
		return 1, 1
	}
}

// TimeOfDay is one of the five phases a tick-day is divided into for
// perception purposes (dawn/day/dusk/night/deep-night).
type TimeOfDay uint8

const (
	TimeOfDayDawn TimeOfDay = iota
	TimeOfDayDay
	TimeOfDayDusk
	TimeOfDayNight
	TimeOfDayDeepNight
)

func (t TimeOfDay) String() string {
	switch t {
	case TimeOfDayDawn:
		return "dawn"
	case TimeOfDayDay:
		return "day"
	case TimeOfDayDusk:
		return "dusk"
	case TimeOfDayNight:
		return "night"
	case TimeOfDayDeepNight:
		return "deep_night"
	default:
		return "unknown_time_of_day"
	}
}

// Weather is the current environmental condition affecting route cost
// and route decay.
type Weather uint8

const (
	WeatherClear Weather = iota
	WeatherRain
	WeatherStorm
	WeatherSnow
	WeatherFog
)

func (w Weather) String() string {
	switch w {
	case WeatherClear:
		return "clear"
	case WeatherRain:
		return "rain"
	case WeatherStorm:
		return "storm"
	case WeatherSnow:
		return "snow"
	case WeatherFog:
		return "fog"
	default:
		return "unknown_weather"
	}
}

// BlocksTravel reports whether the weather makes every route's effective
// cost undefined (storm), per spec §4.2.
func (w Weather) BlocksTravel() bool {
	return w == WeatherStorm
}

// RouteDecayMultiplier returns the integer-ratio multiplier applied to a
// route's per-tick durability decay under this weather. Storm and snow
// accelerate decay.
func (w Weather) RouteDecayMultiplier() (numerator, denominator int64) {
	switch w {
	case WeatherStorm:
		return 2, 1
	case WeatherSnow:
		return 3, 2
	default:
		return 1, 1
	}
}

// PathType is the ordered quality tier of a route.
type PathType uint8

const (
	PathNone PathType = iota
	PathDirtTrail
	PathWornPath
	PathRoad
	PathHighway
)

func (p PathType) String() string {
	switch p {
	case PathNone:
		return "none"
	case PathDirtTrail:
		return "dirt_trail"
	case PathWornPath:
		return "worn_path"
	case PathRoad:
		return "road"
	case PathHighway:
		return "highway"
	default:
		return "unknown_path_type"
	}
}

// Degrade returns the next lower path type and its max durability, per
// the ladder highway -> road -> worn-path -> dirt-trail -> none.
func (p PathType) Degrade() (next PathType, maxDurability int64) {
	switch p {
	case PathHighway:
		return PathRoad, 800
	case PathRoad:
		return PathWornPath, 400
	case PathWornPath:
		return PathDirtTrail, 150
	case PathDirtTrail:
		return PathNone, 0
	default:
		return PathNone, 0
	}
}

// MaxDurability returns the maximum durability for this path type.
func (p PathType) MaxDurability() int64 {
	switch p {
	case PathHighway:
		return 1600
	case PathRoad:
		return 800
	case PathWornPath:
		return 400
	case PathDirtTrail:
		return 150
	default:
		return 0
	}
}

// EntityType tags the kind of entity on either side of a ledger entry.
type EntityType uint8

const (
	EntityAgent EntityType = iota
	EntityLocation
	EntityStructure
	EntityWorld
	EntityVoid
)

func (e EntityType) String() string {
	switch e {
	case EntityAgent:
		return "agent"
	case EntityLocation:
		return "location"
	case EntityStructure:
		return "structure"
	case EntityWorld:
		return "world"
	case EntityVoid:
		return "void"
	default:
		return "unknown_entity"
	}
}

// LedgerEntryType is the closed enumeration of ledger entry categories,
// each with fixed from/to entity-type expectations and a flow
// classification (internal/source/sink) used by the conservation check.
type LedgerEntryType uint8

const (
	EntryRegeneration LedgerEntryType = iota // source: World -> Location
	EntryGather                              // internal: Location -> Agent
	EntryTransfer                            // internal: Agent -> Agent
	EntryTheft                               // internal: Agent -> Agent
	EntryCombatLoot                          // internal: Agent -> Agent
	EntryBuild                               // internal: Agent -> Structure
	EntrySalvage                             // internal: Structure -> Agent
	EntryDrop                                // internal: Agent -> Location
	EntryPickup                              // internal: Location -> Agent
	EntryConsume                             // sink: Agent -> Void
	EntryDecay                               // sink: Structure -> Void
)

func (t LedgerEntryType) String() string {
	switch t {
	case EntryRegeneration:
		return "regeneration"
	case EntryGather:
		return "gather"
	case EntryTransfer:
		return "transfer"
	case EntryTheft:
		return "theft"
	case EntryCombatLoot:
		return "combat_loot"
	case EntryBuild:
		return "build"
	case EntrySalvage:
		return "salvage"
	case EntryDrop:
		return "drop"
	case EntryPickup:
		return "pickup"
	case EntryConsume:
		return "consume"
	case EntryDecay:
		return "decay"
	default:
		return "unknown_entry_type"
	}
}

// FlowClass classifies a ledger entry type for the conservation check.
type FlowClass uint8

const (
	FlowInternal FlowClass = iota // must balance credit==debit per tick per resource
	FlowSource                   // resource appears (e.g. Regeneration)
	FlowSink                     // resource disappears (e.g. Consume, Decay)
)

// Flow returns the flow classification for this entry type.
func (t LedgerEntryType) Flow() FlowClass {
	switch t {
	case EntryRegeneration:
		return FlowSource
	case EntryConsume, EntryDecay:
		return FlowSink
	default:
		return FlowInternal
	}
}

// ExpectedFrom and ExpectedTo return the entity type(s) required on
// either side of an entry of this type, used by Ledger.Append to
// validate entries against spec's fixed entry-category table. A nil
// slice means "not constrained beyond being non-nil".
func (t LedgerEntryType) ExpectedFrom() []EntityType {
	switch t {
	case EntryRegeneration:
		return []EntityType{EntityWorld}
	case EntryGather, EntryPickup:
		return []EntityType{EntityLocation}
	case EntryTransfer, EntryTheft, EntryCombatLoot, EntryBuild, EntryDrop, EntryConsume:
		return []EntityType{EntityAgent}
	case EntrySalvage:
		return []EntityType{EntityStructure}
	case EntryDecay:
		return []EntityType{EntityStructure}
	default:
		return nil
	}
}

func (t LedgerEntryType) ExpectedTo() []EntityType {
	switch t {
	case EntryRegeneration, EntryDrop:
		return []EntityType{EntityLocation}
	case EntryGather, EntryTransfer, EntryTheft, EntryCombatLoot, EntrySalvage, EntryPickup:
		return []EntityType{EntityAgent}
	case EntryBuild:
		return []EntityType{EntityStructure}
	case EntryConsume, EntryDecay:
		return []EntityType{EntityVoid}
	default:
		return nil
	}
}

// RejectionReason enumerates why an action failed one of the seven
// validation stages (or the conflict-resolution step).
type RejectionReason uint8

const (
	RejectNone RejectionReason = iota
	RejectMalformedAction
	RejectUnrecognizedAction
	RejectAgentDead
	RejectInsufficientEnergy
	RejectInvalidLocation
	RejectNotNeighbor
	RejectRouteBlockedByWeather
	RejectTargetNotCoLocated
	RejectResourceUnavailable
	RejectInsufficientMaterials
	RejectLocationAtCapacity
	RejectStructureAtCapacity
	RejectNotOwner
	RejectRouteACLDenied
	RejectMissingKnowledge
	RejectInsufficientSkill
	RejectConflictLost
	RejectInfeasible
	RejectNeedsEvaluation
)

func (r RejectionReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectMalformedAction:
		return "malformed_action"
	case RejectUnrecognizedAction:
		return "unrecognized_action"
	case RejectAgentDead:
		return "agent_dead"
	case RejectInsufficientEnergy:
		return "insufficient_energy"
	case RejectInvalidLocation:
		return "invalid_location"
	case RejectNotNeighbor:
		return "not_neighbor"
	case RejectRouteBlockedByWeather:
		return "route_blocked_by_weather"
	case RejectTargetNotCoLocated:
		return "target_not_co_located"
	case RejectResourceUnavailable:
		return "resource_unavailable"
	case RejectInsufficientMaterials:
		return "insufficient_materials"
	case RejectLocationAtCapacity:
		return "location_at_capacity"
	case RejectStructureAtCapacity:
		return "structure_at_capacity"
	case RejectNotOwner:
		return "not_owner"
	case RejectRouteACLDenied:
		return "route_acl_denied"
	case RejectMissingKnowledge:
		return "missing_knowledge"
	case RejectInsufficientSkill:
		return "insufficient_skill"
	case RejectConflictLost:
		return "conflict_lost"
	case RejectInfeasible:
		return "infeasible"
	case RejectNeedsEvaluation:
		return "needs_evaluation"
	default:
		return "unknown_rejection_reason"
	}
}

// DeathCause enumerates why an agent died.
type DeathCause uint8

const (
	DeathNone DeathCause = iota
	DeathOldAge
	DeathStarvation
	DeathDehydration
	DeathInjury
)

func (d DeathCause) String() string {
	switch d {
	case DeathNone:
		return "none"
	case DeathOldAge:
		return "old_age"
	case DeathStarvation:
		return "starvation"
	case DeathDehydration:
		return "dehydration"
	case DeathInjury:
		return "injury"
	default:
		return "unknown_death_cause"
	}
}

// ConflictStrategy selects how simultaneous contested-resource actions
// are resolved.
type ConflictStrategy uint8

const (
	ConflictFirstComeFirstServed ConflictStrategy = iota
	ConflictRandomWeightedBySkill
	ConflictLowestEnergyFirst
)
