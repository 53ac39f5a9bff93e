package actions

import (
	"github.com/emergence-sim/emergence/internal/agent"
	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/types"
)

// theftBaseRate and the modifiers below are grounded on the original
// prototype's theft success formula (emergence-agents/src/actions/theft.rs):
// base 40%, adjusted by the thief's risk tolerance and the victim's
// aggression and vulnerability, clamped to [5, 90].
const (
	theftBaseRate          = 40
	theftRiskToleranceGain = 10 // per full point of thief risk_tolerance
	theftAggressionPenalty = 15 // per full point of victim aggression
	theftLowEnergyBonus    = 15
	theftRestingBonus      = 10
	theftRelationshipBonus = 10
	theftMinRate           = 5
	theftMaxRate           = 90

	// theftDetectionRate is the percent chance a failed theft attempt is
	// noticed by its victim, per original_source's
	// emergence-agents/src/actions/theft.rs DETECTION_RATE.
	theftDetectionRate = 70
)

// theftSuccessChance computes the integer percent chance [5,90] that a
// theft attempt succeeds.
func theftSuccessChance(victim *agent.State, thiefPersonality, victimPersonality types.Personality, relationship emdecimal.Decimal) int {
	rate := theftBaseRate
	rate += traitToPercent(thiefPersonality.RiskTolerance) * theftRiskToleranceGain / 100
	rate -= traitToPercent(victimPersonality.Aggression) * theftAggressionPenalty / 100
	if victim.Energy < 30 {
		rate += theftLowEnergyBonus
	}
	if victim.Resting {
		rate += theftRestingBonus
	}
	half := emdecimal.NewFromFloatSafe(0.5)
	if relationship.GreaterThan(half) {
		rate += theftRelationshipBonus
	}
	if rate < theftMinRate {
		rate = theftMinRate
	}
	if rate > theftMaxRate {
		rate = theftMaxRate
	}
	return rate
}

// traitToPercent converts a [0,1]-scaled personality trait to an
// integer percentage point, e.g. 0.73 -> 73.
func traitToPercent(trait emdecimal.Decimal) int {
	return int(trait.Mul(emdecimal.NewFromInt(100)).IntPart())
}

// theftRelationshipDelta is the asymmetric, victim-only relationship
// penalty applied when a failed theft attempt is detected by its victim
// — the thief's own relationship score toward the victim is left
// untouched, matching the original prototype's victim-only adjustment.
func theftRelationshipDelta() emdecimal.Decimal {
	return emdecimal.NewFromFloatSafe(-0.5)
}
