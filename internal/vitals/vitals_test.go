package vitals_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/vitals"
)

func newTestState(lifespan uint64) *agent.State {
	return agent.NewState(ids.NewAgentID(), ids.NewLocationID(), 50, lifespan)
}

func TestStarvationChain(t *testing.T) {
	s := newTestState(1000)
	s.Hunger = 95
	s.Health = 5
	s.Energy = 80

	cfg := vitals.DefaultConfig()

	var result vitals.Result
	for i := 0; i < 5 && !result.Died; i++ {
		result = vitals.Apply(s, cfg, false)
	}

	require.True(t, result.Died)
	require.Equal(t, types.DeathStarvation, result.Cause)
}

func TestOldAgeDeath(t *testing.T) {
	s := newTestState(1)
	s.Age = 1
	result := vitals.Apply(s, vitals.DefaultConfig(), false)
	require.True(t, result.Died)
	require.Equal(t, types.DeathOldAge, result.Cause)
}

func TestEnergyCapBlocksFurtherAccumulation(t *testing.T) {
	s := newTestState(1000)
	s.Energy = 100
	vitals.Eat(s, 0, 50)
	require.LessOrEqual(t, s.Energy, 100)
}

func TestVitalsStayWithinBounds(t *testing.T) {
	s := newTestState(1000)
	cfg := vitals.DefaultConfig()
	for i := 0; i < 50; i++ {
		vitals.Apply(s, cfg, true)
		require.GreaterOrEqual(t, s.Hunger, 0)
		require.LessOrEqual(t, s.Hunger, 100)
		require.GreaterOrEqual(t, s.Thirst, 0)
		require.LessOrEqual(t, s.Thirst, 100)
		require.GreaterOrEqual(t, s.Energy, 0)
		require.LessOrEqual(t, s.Energy, 100)
		require.GreaterOrEqual(t, s.Health, 0)
		require.LessOrEqual(t, s.Health, 100)
	}
}

func TestMaxEnergyForAgeDeclinesPastEightyPercent(t *testing.T) {
	require.Equal(t, 100, agent.MaxEnergyForAge(0, 1000))
	require.Equal(t, 100, agent.MaxEnergyForAge(800, 1000))
	require.Equal(t, 50, agent.MaxEnergyForAge(1000, 1000))
	mid := agent.MaxEnergyForAge(900, 1000)
	require.Less(t, mid, 100)
	require.Greater(t, mid, 50)
}
