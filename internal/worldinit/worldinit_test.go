package worldinit_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/config"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldinit"
)

func TestGenerateGraphIsConnectedAndStocked(t *testing.T) {
	g := worldinit.GenerateGraph()
	require.GreaterOrEqual(t, len(g.Locations()), 5)
	require.True(t, g.Connected())

	home, err := worldinit.HomeLocation(g)
	require.NoError(t, err)
	loc, ok := g.Location(home)
	require.True(t, ok)
	require.Equal(t, "Camp Hearth", loc.Name)
}

func TestSeedPopulationIsDeterministicForAGivenSeed(t *testing.T) {
	g := worldinit.GenerateGraph()
	home, err := worldinit.HomeLocation(g)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Population.InitialAgents = 10

	rngA := rand.New(rand.NewPCG(7, 7))
	identsA, statesA := worldinit.SeedPopulation(cfg, home, rngA)

	rngB := rand.New(rand.NewPCG(7, 7))
	identsB, statesB := worldinit.SeedPopulation(cfg, home, rngB)

	require.Len(t, identsA, 10)
	require.Len(t, statesA, 10)
	for i := range identsA {
		require.Equal(t, identsA[i].Name, identsB[i].Name)
		require.Equal(t, identsA[i].Sex, identsB[i].Sex)
		require.True(t, identsA[i].Personality.Curiosity.Equal(identsB[i].Personality.Curiosity))
		require.Equal(t, statesA[i].Energy, statesB[i].Energy)
		require.Equal(t, statesA[i].Location, home)
	}
}

func TestSpawnOneAppliesStartingWallet(t *testing.T) {
	g := worldinit.GenerateGraph()
	home, err := worldinit.HomeLocation(g)
	require.NoError(t, err)

	cfg := config.Default()
	rng := rand.New(rand.NewPCG(1, 1))
	_, s := worldinit.SpawnOne(cfg, home, rng, 0)

	require.EqualValues(t, 2, s.Inventory.Quantity(types.ResourceWater))
	require.EqualValues(t, 2, s.Inventory.Quantity(types.ResourceBerry))
}
