package types

import emdecimal "github.com/emergence-sim/emergence/internal/decimal"

// Personality holds the eight fixed trait values that shape an agent's
// behavior and action-formula modifiers. Every trait is a Decimal in the
// closed interval [0.0, 1.0] — never a float, per spec §9.
type Personality struct {
	Curiosity        emdecimal.Decimal `json:"curiosity"`
	Cooperation      emdecimal.Decimal `json:"cooperation"`
	Aggression       emdecimal.Decimal `json:"aggression"`
	RiskTolerance    emdecimal.Decimal `json:"risk_tolerance"`
	Industriousness  emdecimal.Decimal `json:"industriousness"`
	Sociability      emdecimal.Decimal `json:"sociability"`
	Honesty          emdecimal.Decimal `json:"honesty"`
	Loyalty          emdecimal.Decimal `json:"loyalty"`
}

// ClampTrait restricts a single trait value to [0, 1].
func ClampTrait(d emdecimal.Decimal) emdecimal.Decimal {
	return emdecimal.Clamp(d, emdecimal.Zero, emdecimal.One)
}

// Clamped returns a copy of p with every trait clamped to [0, 1]. Used
// defensively whenever a personality is constructed from external input
// (e.g. spawn seeds, reproduction blending).
func (p Personality) Clamped() Personality {
	return Personality{
		Curiosity:       ClampTrait(p.Curiosity),
		Cooperation:     ClampTrait(p.Cooperation),
		Aggression:      ClampTrait(p.Aggression),
		RiskTolerance:   ClampTrait(p.RiskTolerance),
		Industriousness: ClampTrait(p.Industriousness),
		Sociability:     ClampTrait(p.Sociability),
		Honesty:         ClampTrait(p.Honesty),
		Loyalty:         ClampTrait(p.Loyalty),
	}
}

// Blend returns the child personality for a reproduction action: the
// mean of both parents' traits, clamped. Matches the prototype's family
// module approach of averaging rather than random inheritance, which
// keeps reproduction deterministic given a fixed seed.
func Blend(a, b Personality) Personality {
	avg := func(x, y emdecimal.Decimal) emdecimal.Decimal {
		return x.Add(y).Div(emdecimal.NewFromInt(2))
	}
	return Personality{
		Curiosity:       avg(a.Curiosity, b.Curiosity),
		Cooperation:     avg(a.Cooperation, b.Cooperation),
		Aggression:      avg(a.Aggression, b.Aggression),
		RiskTolerance:   avg(a.RiskTolerance, b.RiskTolerance),
		Industriousness: avg(a.Industriousness, b.Industriousness),
		Sociability:     avg(a.Sociability, b.Sociability),
		Honesty:         avg(a.Honesty, b.Honesty),
		Loyalty:         avg(a.Loyalty, b.Loyalty),
	}.Clamped()
}
