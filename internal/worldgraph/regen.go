package worldgraph

import (
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// RegenDelta describes how much of a resource regenerated at a location
// this tick, for the orchestrator to turn into a Regeneration ledger
// entry.
type RegenDelta struct {
	Location ids.LocationID
	Resource types.Resource
	Amount   int64
}

// Regenerate advances every resource node with headroom by
// regen_rate x season_modifier, capped at the remaining headroom to
// max_capacity. All arithmetic is integer, per spec §9 (no floats): the
// season modifier is applied as an integer ratio and the result is
// floor-divided. A RegenRate of 0 means the resource is finite (e.g.
// stone) and never regenerates.
func (g *Graph) Regenerate(season types.Season) []RegenDelta {
	num, den := season.RegenRatio()
	var deltas []RegenDelta

	for _, loc := range g.Locations() {
		for _, r := range types.AllResources {
			node, ok := loc.Resources[r]
			if !ok || node.RegenRate == 0 {
				continue
			}
			headroom := node.MaxCapacity - node.Available
			if headroom <= 0 {
				continue
			}
			amount := (node.RegenRate * num) / den
			if amount > headroom {
				amount = headroom
			}
			if amount <= 0 {
				continue
			}
			node.Available += amount
			deltas = append(deltas, RegenDelta{Location: loc.ID, Resource: r, Amount: amount})
		}
	}
	return deltas
}
