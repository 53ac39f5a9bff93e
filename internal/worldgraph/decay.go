package worldgraph

import (
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// DegradeEvent is emitted when a route's durability crosses zero and it
// drops to the next lower path type.
type DegradeEvent struct {
	Route    ids.RouteID
	From     types.PathType
	To       types.PathType
}

// DecayRoutes reduces every route's durability by decay_rate x
// weather_multiplier. When durability crosses zero, the route degrades
// to the next lower path type and its durability resets to that type's
// max (spec §4.2).
func (g *Graph) DecayRoutes(weather types.Weather) []DegradeEvent {
	num, den := weather.RouteDecayMultiplier()
	var events []DegradeEvent

	for _, r := range g.Routes() {
		if r.Path == types.PathNone {
			continue // already fully decayed; nothing left to lose
		}
		decay := (r.DecayRate * num) / den
		r.Durability -= decay
		if r.Durability <= 0 {
			next, maxDur := r.Path.Degrade()
			events = append(events, DegradeEvent{Route: r.ID, From: r.Path, To: next})
			r.Path = next
			r.Durability = maxDur
		}
	}
	return events
}
