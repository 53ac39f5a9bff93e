package clock_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/clock"
	"github.com/emergence-sim/emergence/internal/types"
)

var fourSeasons = []types.Season{types.SeasonSpring, types.SeasonSummer, types.SeasonAutumn, types.SeasonWinter}

func TestSeasonCycle(t *testing.T) {
	c, err := clock.New(10, fourSeasons, 1)
	require.NoError(t, err)
	require.Equal(t, types.SeasonSpring, c.Season())

	for i := 0; i < 10; i++ {
		_, err := c.Advance()
		require.NoError(t, err)
	}
	require.Equal(t, types.SeasonSummer, c.Season())

	for i := 0; i < 30; i++ {
		_, err := c.Advance()
		require.NoError(t, err)
	}
	require.Equal(t, types.SeasonSpring, c.Season(), "season rolls over after a full year")
}

func TestTickWithinSeasonRoundTrip(t *testing.T) {
	c, err := clock.New(10, fourSeasons, 1)
	require.NoError(t, err)
	for i := 0; i < 47; i++ {
		_, err := c.Advance()
		require.NoError(t, err)
	}
	got := c.TickWithinSeason() + c.SeasonIndex()*c.TicksPerSeason() + (c.Tick()/c.TicksPerYear())*c.TicksPerYear()
	require.Equal(t, c.Tick(), got)
}

func TestInvalidConfigRejected(t *testing.T) {
	_, err := clock.New(0, fourSeasons, 1)
	require.ErrorIs(t, err, clock.ErrInvalidConfig)

	_, err = clock.New(10, nil, 1)
	require.ErrorIs(t, err, clock.ErrInvalidConfig)
}
