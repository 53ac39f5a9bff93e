// Package checked provides overflow-checked integer arithmetic for the
// bounded counters that appear throughout the simulation core (tick
// numbers, ages, vitals). Per spec, overflow is never silently wrapped:
// it is either converted into a rejection (inside an action handler) or
// a fatal invariant violation (inside the core transition).
package checked

import (
	"errors"
	"math"
)

// ErrOverflow is returned when a checked operation would overflow the
// representable range of its integer type.
var ErrOverflow = errors.New("checked: arithmetic overflow")

// AddUint64 returns a+b, failing on overflow past math.MaxUint64.
func AddUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// AddUint16 returns a+b, failing on overflow past math.MaxUint16.
func AddUint16(a, b uint16) (uint16, error) {
	sum := uint32(a) + uint32(b)
	if sum > math.MaxUint16 {
		return 0, ErrOverflow
	}
	return uint16(sum), nil
}

// ClampInt restricts v to [lo, hi] using plain comparisons (clamping is
// not an overflow-prone operation, but it is the companion op used
// everywhere a checked add/sub result must additionally be bounded).
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SaturatingAddInt adds b to a and clamps to [lo, hi]. Used for vitals
// (hunger/thirst/energy/health) where the domain wants saturation, not
// an error, at the boundary — the spec calls this out explicitly
// ("clamped at 100", "saturating at 0").
func SaturatingAddInt(a, b, lo, hi int) int {
	// a and b are always small (vitals are 0-100 scale, deltas are
	// single/double digit), so plain int addition cannot overflow the
	// machine word; the checked concern here is the domain boundary,
	// enforced by clamping rather than erroring.
	return ClampInt(a+b, lo, hi)
}
