package orchestrator_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/actions"
	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/clock"
	"github.com/emergence-sim/emergence/internal/decision"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/orchestrator"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

func newEngine(t *testing.T, src decision.Source) (*orchestrator.Engine, *worldgraph.Location) {
	t.Helper()
	c, err := clock.New(90, []types.Season{types.SeasonSpring, types.SeasonSummer, types.SeasonAutumn, types.SeasonWinter}, 24)
	require.NoError(t, err)

	g := worldgraph.NewGraph()
	camp := worldgraph.NewLocation("Camp", "region", "camp", "", 5)
	camp.Resources[types.ResourceBerry] = &worldgraph.ResourceNode{Resource: types.ResourceBerry, Available: 40, MaxCapacity: 100, RegenRate: 2}
	g.AddLocation(camp)

	rng := rand.New(rand.NewPCG(1, 1))
	e := orchestrator.New(c, g, ledger.New(), src, rng)
	e.WeatherEnabled = false

	id := ids.NewAgentID()
	s := agent.NewState(id, camp.ID, 50, 36000)
	e.Agents[id] = s
	e.Identities.Register(&agent.Identity{ID: id, Personality: types.Personality{}.Clamped()})
	require.NoError(t, g.PlaceAgent(id, camp.ID))

	return e, camp
}

func TestStepRunsSixPhasesAndStaysBalanced(t *testing.T) {
	e, camp := newEngine(t, decision.NoActionSource{})

	verdict, err := e.Step(context.Background())
	require.NoError(t, err)
	require.True(t, verdict.Balanced)
	require.EqualValues(t, 1, e.Clock.Tick())
	require.Greater(t, camp.Resources[types.ResourceBerry].Available, int64(40), "regeneration should have added headroom")
}

func TestStepExecutesDecisionSourceRequests(t *testing.T) {
	var agentID ids.AgentID
	e, _ := newEngine(t, nil)
	for id := range e.Agents {
		agentID = id
	}
	e.Decision = decision.NewFixed(map[uint64]map[ids.AgentID]actions.Request{
		1: {agentID: {Agent: agentID, Type: types.ActionGather, Resource: types.ResourceBerry, Quantity: 3}},
	})

	_, err := e.Step(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, e.Agents[agentID].Inventory.Quantity(types.ResourceBerry))
}

func TestStepRecordsDeathWhenHealthReachesZero(t *testing.T) {
	e, _ := newEngine(t, decision.NoActionSource{})
	var agentID ids.AgentID
	for id := range e.Agents {
		agentID = id
	}
	e.Agents[agentID].Health = 1
	e.Agents[agentID].Hunger = 99
	e.Agents[agentID].Thirst = 99

	for i := 0; i < 3; i++ {
		_, err := e.Step(context.Background())
		require.NoError(t, err)
	}

	ident, ok := e.Identities.Get(agentID)
	require.True(t, ok)
	require.NotNil(t, ident.DeathTick)
}

func TestStepDropsInventoryToLocationOnDeath(t *testing.T) {
	e, camp := newEngine(t, decision.NoActionSource{})
	var agentID ids.AgentID
	for id := range e.Agents {
		agentID = id
	}
	e.Agents[agentID].Health = 1
	e.Agents[agentID].Hunger = 99
	e.Agents[agentID].Thirst = 99
	e.Agents[agentID].Inventory.Add(types.ResourceWater, 2)
	e.Agents[agentID].Inventory.Add(types.ResourceWood, 3)

	_, ok := camp.Resources[types.ResourceWater]
	require.False(t, ok, "camp starts with no water node")

	for i := 0; i < 3; i++ {
		_, err := e.Step(context.Background())
		require.NoError(t, err)
	}

	ident, ok := e.Identities.Get(agentID)
	require.True(t, ok)
	require.NotNil(t, ident.DeathTick)

	require.NotNil(t, camp.Resources[types.ResourceWater])
	require.EqualValues(t, 2, camp.Resources[types.ResourceWater].Available)
	require.NotNil(t, camp.Resources[types.ResourceWood])
	require.EqualValues(t, 3, camp.Resources[types.ResourceWood].Available)

	var drops int
	for _, entry := range e.Ledger.All() {
		if entry.Type == types.EntryDrop && entry.From != nil && entry.From.ID == agentID.String() {
			drops++
		}
	}
	require.Equal(t, 2, drops, "expected a Drop ledger entry for each held resource")
}
