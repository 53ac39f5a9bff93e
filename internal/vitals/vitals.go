// Package vitals implements the per-agent per-tick vital transition
// (spec C4 / §4.3): aging, hunger/thirst accumulation, starvation and
// dehydration damage, the age-derived energy cap, natural healing, and
// death detection.
package vitals

import (
	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/checked"
	"github.com/emergence-sim/emergence/internal/types"
)

// Config holds the tunable rates referenced by the transition, sourced
// from the run's economy/population configuration (spec §6).
type Config struct {
	HungerRate           int // added to hunger each tick
	ThirstRate           int // added to thirst each tick
	StarvationThreshold  int // hunger >= this triggers starvation damage
	DehydrationThreshold int // thirst >= this triggers dehydration damage
	StarvationDamage     int
	DehydrationDamage    int
	HealThreshold        int // hunger must be below this to heal
	HealEnergyThreshold  int // energy must be above this to heal
	NaturalHealRate      int
	RestRecoveryRate     int // base energy/tick recovered while resting
}

// DefaultConfig returns the spec's illustrative default rates.
func DefaultConfig() Config {
	return Config{
		HungerRate:           2,
		ThirstRate:           3,
		StarvationThreshold:  90,
		DehydrationThreshold: 90,
		StarvationDamage:     5,
		DehydrationDamage:    7,
		HealThreshold:        40,
		HealEnergyThreshold:  50,
		NaturalHealRate:      2,
		RestRecoveryRate:     10,
	}
}

// Result reports the outcome of applying one tick's vital transition.
type Result struct {
	Died  bool
	Cause types.DeathCause
}

// Apply runs spec §4.3's six-step per-tick transition, in order, against
// s. `sheltered` indicates whether the agent is at a location/structure
// that grants the natural-heal shelter bonus this tick. Returns whether
// the agent died this tick and, if so, the recorded cause.
func Apply(s *agent.State, cfg Config, sheltered bool) Result {
	// Step 1: age, then check old-age death.
	s.Age++
	if s.Age > s.LifespanTicks {
		s.Health = 0
		return Result{Died: true, Cause: types.DeathOldAge}
	}

	// Step 2: hunger/thirst accumulate, clamped at 100.
	s.Hunger = checked.SaturatingAddInt(s.Hunger, cfg.HungerRate, 0, 100)
	s.Thirst = checked.SaturatingAddInt(s.Thirst, cfg.ThirstRate, 0, 100)

	// Step 3: starvation/dehydration damage.
	var lastDamage types.DeathCause
	if s.Hunger >= cfg.StarvationThreshold {
		s.Health = checked.SaturatingAddInt(s.Health, -cfg.StarvationDamage, 0, 100)
		lastDamage = types.DeathStarvation
	}
	if s.Thirst >= cfg.DehydrationThreshold {
		s.Health = checked.SaturatingAddInt(s.Health, -cfg.DehydrationDamage, 0, 100)
		lastDamage = types.DeathDehydration
	}

	// Step 4: clamp energy to the age-derived cap.
	ageCap := agent.MaxEnergyForAge(s.Age, s.LifespanTicks)
	if s.Energy > ageCap {
		s.Energy = ageCap
	}

	// Step 5: natural healing, if conditions are met.
	if s.Hunger < cfg.HealThreshold && s.Energy > cfg.HealEnergyThreshold && sheltered {
		s.Health = checked.SaturatingAddInt(s.Health, cfg.NaturalHealRate, 0, 100)
	}

	// Step 6: re-check death conditions. Health <= 0 means death; the
	// most recent damage cause wins, defaulting to Injury if health was
	// already at/below zero without a fresh hunger/thirst hit this tick.
	if s.Health <= 0 {
		cause := types.DeathInjury
		if lastDamage != types.DeathNone {
			cause = lastDamage
		}
		return Result{Died: true, Cause: cause}
	}

	return Result{Died: false}
}

// ApplyActionCost subtracts a fixed energy cost for an action,
// saturating at 0.
func ApplyActionCost(s *agent.State, cost int) {
	s.Energy = checked.SaturatingAddInt(s.Energy, -cost, 0, agent.MaxEnergyForAge(s.Age, s.LifespanTicks))
}

// Rest adds rest_recovery x shelter_bonus_pct / 100 energy (shelter_bonus
// 100 = no bonus), clamped to the age cap (spec §4.3).
func Rest(s *agent.State, cfg Config, shelterBonusPct int) {
	recovered := cfg.RestRecoveryRate * shelterBonusPct / 100
	ageCap := agent.MaxEnergyForAge(s.Age, s.LifespanTicks)
	s.Energy = checked.SaturatingAddInt(s.Energy, recovered, 0, ageCap)
}

// Eat reduces hunger and adds energy per the consumed resource's table,
// respecting the age cap.
func Eat(s *agent.State, hungerReduction, energyGain int) {
	s.Hunger = checked.SaturatingAddInt(s.Hunger, -hungerReduction, 0, 100)
	ageCap := agent.MaxEnergyForAge(s.Age, s.LifespanTicks)
	s.Energy = checked.SaturatingAddInt(s.Energy, energyGain, 0, ageCap)
}

// Drink reduces thirst and adds a small energy amount, respecting the
// age cap.
func Drink(s *agent.State, thirstReduction, energyGain int) {
	s.Thirst = checked.SaturatingAddInt(s.Thirst, -thirstReduction, 0, 100)
	ageCap := agent.MaxEnergyForAge(s.Age, s.LifespanTicks)
	s.Energy = checked.SaturatingAddInt(s.Energy, energyGain, 0, ageCap)
}
