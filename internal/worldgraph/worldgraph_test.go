package worldgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

func twoLocationGraph(cost int64) (*worldgraph.Graph, *worldgraph.Location, *worldgraph.Location) {
	g := worldgraph.NewGraph()
	a := worldgraph.NewLocation("A", "region", "camp", "", 5)
	b := worldgraph.NewLocation("B", "region", "camp", "", 5)
	g.AddLocation(a)
	g.AddLocation(b)
	g.AddRoute(&worldgraph.Route{
		ID: ids.NewRouteID(), From: a.ID, To: b.ID, TickCost: cost,
		Path: types.PathRoad, Durability: 5, DecayRate: 3, Bidirectional: true,
	})
	return g, a, b
}

func TestSingleLocationWorldHasEmptyNeighbors(t *testing.T) {
	g := worldgraph.NewGraph()
	a := worldgraph.NewLocation("Solo", "r", "t", "", 1)
	g.AddLocation(a)
	require.Empty(t, g.Neighbors(a.ID))
}

func TestShortestPathSameSourceDestination(t *testing.T) {
	g, a, _ := twoLocationGraph(2)
	path := g.ShortestPath(a.ID, a.ID, types.WeatherClear)
	require.Equal(t, []ids.LocationID{a.ID}, path)
}

func TestShortestPathUnreachableWhenStorm(t *testing.T) {
	g, a, b := twoLocationGraph(2)
	path := g.ShortestPath(a.ID, b.ID, types.WeatherStorm)
	require.Nil(t, path)
}

func TestShortestPathFindsRoute(t *testing.T) {
	g, a, b := twoLocationGraph(2)
	path := g.ShortestPath(a.ID, b.ID, types.WeatherClear)
	require.Equal(t, []ids.LocationID{a.ID, b.ID}, path)
}

func TestMoveAgentValidatesCapacityAndSource(t *testing.T) {
	g, a, b := twoLocationGraph(1)
	agent := ids.NewAgentID()

	require.ErrorIs(t, g.MoveAgent(agent, a.ID, b.ID), worldgraph.ErrAgentNotAtLocation)

	require.NoError(t, g.PlaceAgent(agent, a.ID))
	require.NoError(t, g.MoveAgent(agent, a.ID, b.ID))
	require.True(t, b.HasOccupant(agent))
	require.False(t, a.HasOccupant(agent))
}

func TestMoveAgentRejectsCapacity(t *testing.T) {
	g := worldgraph.NewGraph()
	a := worldgraph.NewLocation("A", "r", "t", "", 5)
	full := worldgraph.NewLocation("Full", "r", "t", "", 1)
	g.AddLocation(a)
	g.AddLocation(full)

	existing := ids.NewAgentID()
	require.NoError(t, g.PlaceAgent(existing, full.ID))

	mover := ids.NewAgentID()
	require.NoError(t, g.PlaceAgent(mover, a.ID))

	err := g.MoveAgent(mover, a.ID, full.ID)
	require.ErrorIs(t, err, worldgraph.ErrLocationAtCapacity)
	// Failure must leave both locations unchanged.
	require.True(t, a.HasOccupant(mover))
	require.False(t, full.HasOccupant(mover))
}

func TestRegenerateRespectsSeasonRatioAndCap(t *testing.T) {
	g := worldgraph.NewGraph()
	loc := worldgraph.NewLocation("Field", "r", "t", "", 5)
	loc.Resources[types.ResourceBerry] = &worldgraph.ResourceNode{
		Resource: types.ResourceBerry, Available: 0, RegenRate: 10, MaxCapacity: 11,
	}
	g.AddLocation(loc)

	deltas := g.Regenerate(types.SeasonSpring)
	require.Len(t, deltas, 1)
	require.Equal(t, int64(11), deltas[0].Amount) // 10 * 5/4 = 12, capped at headroom 11
	require.Equal(t, int64(11), loc.Resources[types.ResourceBerry].Available, "capped at headroom")
}

func TestRegenerateWinterIntegerDivisionCanYieldZero(t *testing.T) {
	g := worldgraph.NewGraph()
	loc := worldgraph.NewLocation("Tundra", "r", "t", "", 5)
	loc.Resources[types.ResourceBerry] = &worldgraph.ResourceNode{
		Resource: types.ResourceBerry, Available: 0, RegenRate: 3, MaxCapacity: 100,
	}
	g.AddLocation(loc)

	deltas := g.Regenerate(types.SeasonWinter)
	require.Empty(t, deltas, "3 * 1/4 floors to 0, so no regen event is emitted")
}

func TestDecayRoutesDegradesPathType(t *testing.T) {
	g, a, b := twoLocationGraph(1)
	r, _ := g.RouteBetween(a.ID, b.ID)
	require.Equal(t, types.PathRoad, r.Path)

	g.DecayRoutes(types.WeatherClear) // durability 5 -> 2
	require.Equal(t, types.PathRoad, r.Path)

	events := g.DecayRoutes(types.WeatherClear) // durability 2 -> -1 -> degrade
	require.Len(t, events, 1)
	require.Equal(t, types.PathWornPath, r.Path)
	require.Equal(t, types.PathWornPath.MaxDurability(), r.Durability)
}

func TestConnectivity(t *testing.T) {
	g, _, _ := twoLocationGraph(1)
	require.True(t, g.Connected())

	isolated := worldgraph.NewLocation("Island", "r", "t", "", 1)
	g.AddLocation(isolated)
	require.False(t, g.Connected())
}
