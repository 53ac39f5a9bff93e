package perception_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/perception"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

func newFixture(t *testing.T) (*perception.Context, *worldgraph.Location, *worldgraph.Location, *agent.State) {
	t.Helper()
	g := worldgraph.NewGraph()
	here := worldgraph.NewLocation("Camp", "region", "camp", "", 5)
	there := worldgraph.NewLocation("Grove", "region", "grove", "", 5)
	here.Resources[types.ResourceBerry] = &worldgraph.ResourceNode{Resource: types.ResourceBerry, Available: 40, MaxCapacity: 100}
	g.AddLocation(here)
	g.AddLocation(there)
	g.AddRoute(&worldgraph.Route{
		ID: ids.NewRouteID(), From: here.ID, To: there.ID, TickCost: 1,
		Path: types.PathRoad, Durability: 100, DecayRate: 1, Bidirectional: true,
	})

	id := ids.NewAgentID()
	a := agent.NewState(id, here.ID, 50, 36000)
	require.NoError(t, g.PlaceAgent(id, here.ID))

	ctx := &perception.Context{
		Tick:      7,
		Graph:     g,
		Agents:    map[ids.AgentID]*agent.State{id: a},
		Structures: worldgraph.NewStructureRegistry(),
		Season:    types.SeasonSummer,
		Weather:   types.WeatherClear,
		TimeOfDay: types.TimeOfDayDay,
	}
	return ctx, here, there, a
}

func TestFuzzifyBuckets(t *testing.T) {
	require.Equal(t, perception.FuzzyNone, perception.Fuzzify(0, 100))
	require.Equal(t, perception.FuzzyScarce, perception.Fuzzify(5, 100))
	require.Equal(t, perception.FuzzyModerate, perception.Fuzzify(30, 100))
	require.Equal(t, perception.FuzzyAbundant, perception.Fuzzify(60, 100))
	require.Equal(t, perception.FuzzyPlentiful, perception.Fuzzify(90, 100))
}

func TestFuzzifyNoCapacityUsesAbsoluteThresholds(t *testing.T) {
	require.Equal(t, perception.FuzzyScarce, perception.Fuzzify(2, 0))
	require.Equal(t, perception.FuzzyPlentiful, perception.Fuzzify(100, 0))
}

func TestAssembleSelfReflectsVitalsAndCarryLoad(t *testing.T) {
	ctx, _, _, a := newFixture(t)
	a.Inventory.Add(types.ResourceBerry, 3)

	p := perception.Assemble(ctx, a, nil)

	require.Equal(t, a.ID, p.Self.ID)
	require.Equal(t, "3/50", p.Self.CarryLoad)
	require.Equal(t, uint64(7), p.Tick)
}

func TestAssembleSurroundingsFuzzifiesHereButHidesUndiscoveredNeighbor(t *testing.T) {
	ctx, here, there, a := newFixture(t)

	p := perception.Assemble(ctx, a, nil)

	require.True(t, p.Surroundings.Here.Discovered)
	require.Len(t, p.Surroundings.Here.Resources, 1)
	require.Equal(t, perception.FuzzyModerate, p.Surroundings.Here.Resources[0].Quantity)

	require.Len(t, p.Surroundings.Neighbors, 1)
	require.False(t, p.Surroundings.Neighbors[0].Discovered)
	require.Empty(t, p.Surroundings.Neighbors[0].Resources)
	require.Equal(t, there.ID, p.Surroundings.Neighbors[0].ID)

	there.DiscoveredBy[a.ID] = struct{}{}
	p2 := perception.Assemble(ctx, a, nil)
	require.True(t, p2.Surroundings.Neighbors[0].Discovered)
	_ = here
}

func TestAvailableActionsPrunesToWhatIsFeasible(t *testing.T) {
	ctx, _, _, a := newFixture(t)

	p := perception.Assemble(ctx, a, nil)

	require.Contains(t, p.AvailableActions, types.ActionGather)
	require.Contains(t, p.AvailableActions, types.ActionMove)
	require.NotContains(t, p.AvailableActions, types.ActionTheft, "no other occupant present yet")
	require.NotContains(t, p.AvailableActions, types.ActionEat, "nothing in inventory yet")

	a.Inventory.Add(types.ResourceBerry, 1)
	p2 := perception.Assemble(ctx, a, nil)
	require.Contains(t, p2.AvailableActions, types.ActionEat)
}

func TestAssembleIncludesNotifications(t *testing.T) {
	ctx, _, _, a := newFixture(t)

	p := perception.Assemble(ctx, a, []string{"a wolf howls nearby"})

	require.Equal(t, []string{"a wolf howls nearby"}, p.Notifications)
}
