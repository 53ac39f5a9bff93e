package agent

import (
	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/ids"
)

// MemoryTier classifies a memory's retention stage.
type MemoryTier uint8

const (
	MemoryImmediate MemoryTier = iota
	MemoryShortTerm
	MemoryLongTerm
)

// Memory is a single remembered event.
type Memory struct {
	Tick            uint64
	Summary         string
	Tier            MemoryTier
	EmotionalWeight emdecimal.Decimal // [0, 1]
	Involved        []ids.AgentID
}

// RecentImmediate returns the last n immediate-tier memories, most
// recent first, for perception assembly (spec §4.7).
func RecentImmediate(memories []Memory, n int) []Memory {
	var out []Memory
	for i := len(memories) - 1; i >= 0 && len(out) < n; i-- {
		if memories[i].Tier == MemoryImmediate {
			out = append(out, memories[i])
		}
	}
	return out
}

// immediateRetentionTicks bounds how long a memory stays immediate-tier
// before Compact evaluates it for promotion or discard.
const immediateRetentionTicks = 100

// shortTermRetentionTicks bounds how long a memory stays short-term
// before Compact evaluates it for promotion to long-term or discard.
const shortTermRetentionTicks = 1000

// Compact applies spec §9's memory compaction rule at end-of-tick:
// immediate-tier memories older than the retention window promote to
// short-term if emotional weight > 0.7, to short-term if >= 0.3,
// else discard. Short-term memories older than their window promote to
// long-term at > 0.7, else discard. Long-term is permanent.
func Compact(memories []Memory, currentTick uint64) []Memory {
	highWeight := emdecimal.NewFromFloatSafe(0.7)
	midWeight := emdecimal.NewFromFloatSafe(0.3)

	out := make([]Memory, 0, len(memories))
	for _, m := range memories {
		switch m.Tier {
		case MemoryImmediate:
			age := currentTick - m.Tick
			if age <= immediateRetentionTicks {
				out = append(out, m)
				continue
			}
			if m.EmotionalWeight.GreaterThanOrEqual(midWeight) {
				m.Tier = MemoryShortTerm
				out = append(out, m)
			}
			// else discarded.
		case MemoryShortTerm:
			age := currentTick - m.Tick
			if age <= shortTermRetentionTicks {
				out = append(out, m)
				continue
			}
			if m.EmotionalWeight.GreaterThan(highWeight) {
				m.Tier = MemoryLongTerm
				out = append(out, m)
			}
			// else discarded.
		case MemoryLongTerm:
			out = append(out, m) // permanent
		}
	}
	return out
}
