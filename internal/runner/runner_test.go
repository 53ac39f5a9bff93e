package runner_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/clock"
	"github.com/emergence-sim/emergence/internal/decision"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/orchestrator"
	"github.com/emergence-sim/emergence/internal/runner"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

func newEngine(t *testing.T) (*orchestrator.Engine, ids.LocationID) {
	t.Helper()
	c, err := clock.New(90, []types.Season{types.SeasonSpring, types.SeasonSummer, types.SeasonAutumn, types.SeasonWinter}, 24)
	require.NoError(t, err)

	g := worldgraph.NewGraph()
	camp := worldgraph.NewLocation("Camp", "region", "camp", "", 20)
	g.AddLocation(camp)

	e := orchestrator.New(c, g, ledger.New(), decision.NoActionSource{}, rand.New(rand.NewPCG(1, 1)))
	e.WeatherEnabled = false
	return e, camp.ID
}

func spawnInto(loc ids.LocationID) runner.Spawner {
	return func(e *orchestrator.Engine) bool {
		id := ids.NewAgentID()
		s := agent.NewState(id, loc, 50, 36000)
		ident := &agent.Identity{ID: id, Personality: types.Personality{}.Clamped()}
		return e.AddAgent(ident, s) == nil
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	e, loc := newEngine(t)
	spawn := spawnInto(loc)
	spawn(e)

	r := runner.New(e, runner.Config{MaxTicks: 3}, spawn)
	r.Interval = time.Millisecond

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, runner.EndMaxTicksReached, result.EndReason)
	require.EqualValues(t, 3, result.TotalTicks)
}

func TestRunDeclaresExtinctionWithoutAutoRecovery(t *testing.T) {
	e, _ := newEngine(t)
	r := runner.New(e, runner.Config{MaxTicks: 10}, nil)
	r.Interval = time.Millisecond

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, runner.EndExtinction, result.EndReason)
	require.EqualValues(t, 1, result.TotalTicks)
}

func TestRunAutoRecoversBelowMinPopulation(t *testing.T) {
	e, loc := newEngine(t)
	spawn := spawnInto(loc)
	spawn(e)

	r := runner.New(e, runner.Config{MaxTicks: 1, MinPopulation: 3}, spawn)
	r.Interval = time.Millisecond

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, runner.EndMaxTicksReached, result.EndReason)
	require.GreaterOrEqual(t, e.AlivePopulation(), 3)
}

func TestStopRequestEndsLoopBeforeNextTick(t *testing.T) {
	e, loc := newEngine(t)
	spawn := spawnInto(loc)
	spawn(e)

	r := runner.New(e, runner.Config{}, spawn)
	r.Interval = time.Millisecond
	r.Stop()

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, runner.EndOperatorStop, result.EndReason)
	require.EqualValues(t, 0, result.TotalTicks)
}
