// Package clock tracks the tick counter and derives season and
// time-of-day from it (spec C6). The tick number is the single source
// of truth for all temporal state — season and time-of-day are never
// stored independently. Era is set externally by the orchestrator/runner
// when emergent conditions are met.
package clock

import (
	"errors"

	"github.com/emergence-sim/emergence/internal/types"
)

// ErrInvalidConfig is returned by New when ticks-per-season is zero or
// the season list is empty.
var ErrInvalidConfig = errors.New("clock: ticks_per_season must be >= 1 and at least one season configured")

// ErrTickOverflow is returned by Advance if the tick counter would
// exceed the representable range.
var ErrTickOverflow = errors.New("clock: tick counter overflow")

// Clock is the world clock.
type Clock struct {
	tick          uint64
	era           types.Era
	ticksPerSeason uint64
	seasons       []types.Season
	ticksPerDay   uint64 // used to derive time-of-day phases within a tick-day
}

// New constructs a Clock starting at tick 0 in the Primitive era.
func New(ticksPerSeason uint64, seasons []types.Season, ticksPerDay uint64) (*Clock, error) {
	if ticksPerSeason == 0 || len(seasons) == 0 {
		return nil, ErrInvalidConfig
	}
	if ticksPerDay == 0 {
		ticksPerDay = 1
	}
	return &Clock{
		tick:           0,
		era:            types.EraPrimitive,
		ticksPerSeason: ticksPerSeason,
		seasons:        seasons,
		ticksPerDay:    ticksPerDay,
	}, nil
}

// FromParts restores a Clock from explicit state (e.g. loaded from a
// persisted snapshot).
func FromParts(tick uint64, era types.Era, ticksPerSeason uint64, seasons []types.Season, ticksPerDay uint64) (*Clock, error) {
	c, err := New(ticksPerSeason, seasons, ticksPerDay)
	if err != nil {
		return nil, err
	}
	c.tick = tick
	c.era = era
	return c, nil
}

// Advance increments the tick counter by one, failing on overflow.
func (c *Clock) Advance() (uint64, error) {
	if c.tick == ^uint64(0) {
		return 0, ErrTickOverflow
	}
	c.tick++
	return c.tick, nil
}

// Tick returns the current tick number.
func (c *Clock) Tick() uint64 { return c.tick }

// Era returns the current civilizational era.
func (c *Clock) Era() types.Era { return c.era }

// SetEra sets the era, called by the orchestrator on era transitions.
func (c *Clock) SetEra(e types.Era) { c.era = e }

// TicksPerSeason returns the configured season length.
func (c *Clock) TicksPerSeason() uint64 { return c.ticksPerSeason }

// TicksPerYear returns ticks_per_season * len(seasons).
func (c *Clock) TicksPerYear() uint64 {
	return c.ticksPerSeason * uint64(len(c.seasons))
}

// Season computes the current season from the tick counter: season
// index = (tick / ticks_per_season) % season_count.
func (c *Clock) Season() types.Season {
	idx := (c.tick / c.ticksPerSeason) % uint64(len(c.seasons))
	return c.seasons[idx]
}

// TickWithinSeason returns the tick offset within the current season.
func (c *Clock) TickWithinSeason() uint64 {
	return c.tick % c.ticksPerSeason
}

// SeasonIndex returns the 0-based index of the current season in the
// configured season list.
func (c *Clock) SeasonIndex() uint64 {
	return (c.tick / c.ticksPerSeason) % uint64(len(c.seasons))
}

// TimeOfDay derives one of five phases from the tick's position within
// a tick-day, evenly dividing ticksPerDay into five bands.
func (c *Clock) TimeOfDay() types.TimeOfDay {
	withinDay := c.tick % c.ticksPerDay
	band := withinDay * 5 / c.ticksPerDay
	switch band {
	case 0:
		return types.TimeOfDayDawn
	case 1:
		return types.TimeOfDayDay
	case 2:
		return types.TimeOfDayDusk
	case 3:
		return types.TimeOfDayNight
	default:
		return types.TimeOfDayDeepNight
	}
}
