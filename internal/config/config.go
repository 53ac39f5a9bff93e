// Package config loads the declarative YAML run configuration (spec
// §6): world, time, population, economy, environment, discovery, and
// bounds sections. Grounded on the teacher's defaulting pattern
// (world.DefaultGenConfig in internal/world/generation.go) and the
// pack-wide use of gopkg.in/yaml.v3 for declarative config files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emergence-sim/emergence/internal/types"
)

// World holds world-level seed and timing configuration.
type World struct {
	Seed              int64  `yaml:"seed"`
	TickIntervalMS    int    `yaml:"tick_interval_ms"`
	StartingEra       string `yaml:"starting_era"`
	DecisionDeadlineMS int   `yaml:"decision_deadline_ms"`
}

// Time holds the season/day-night configuration.
type Time struct {
	TicksPerSeason uint64   `yaml:"ticks_per_season"`
	Seasons        []string `yaml:"seasons"`
	TicksPerDay    uint64   `yaml:"ticks_per_day"`
	DayNightToggle bool     `yaml:"day_night_toggle"`
}

// Population holds population bounds and reproduction configuration.
type Population struct {
	InitialAgents       int    `yaml:"initial_agents"`
	MaxAgents           int    `yaml:"max_agents"`
	LifespanTicks       uint64 `yaml:"lifespan_ticks"`
	ReproductionEnabled bool   `yaml:"reproduction_enabled"`
	ChildMaturityTicks  uint64 `yaml:"child_maturity_ticks"`
}

// Economy holds starting resources and vital-rate configuration.
type Economy struct {
	StartingWallet   map[string]int64 `yaml:"starting_wallet"`
	CarryCapacity    int              `yaml:"carry_capacity"`
	HungerRate       int              `yaml:"hunger_rate"`
	ThirstRate       int              `yaml:"thirst_rate"`
	StarvationDamage int              `yaml:"starvation_damage"`
	DehydrationDamage int             `yaml:"dehydration_damage"`
	RestRecovery     int              `yaml:"rest_recovery"`
	NaturalHealRate  int              `yaml:"natural_heal_rate"`
}

// Environment holds weather/season/decay toggles.
type Environment struct {
	WeatherEnabled bool `yaml:"weather_enabled"`
	SeasonsEnabled bool `yaml:"seasons_enabled"`
	StructureDecay bool `yaml:"structure_decay_enabled"`
}

// Discovery holds discovery/teaching chance configuration.
type Discovery struct {
	AccidentalDiscoveryChance int `yaml:"accidental_discovery_chance"` // percent
	TeachBaseRate             int `yaml:"teach_base_rate"`             // percent
}

// Bounds holds the run's termination limits.
type Bounds struct {
	MaxTicks           uint64 `yaml:"max_ticks"` // 0 = unbounded
	MaxRealTimeSeconds int    `yaml:"max_real_time_seconds"`
	EndCondition       string `yaml:"end_condition"`
	MinPopulation      int    `yaml:"min_population"`
}

// Config is the full declarative run configuration.
type Config struct {
	World       World       `yaml:"world"`
	Time        Time        `yaml:"time"`
	Population  Population  `yaml:"population"`
	Economy     Economy     `yaml:"economy"`
	Environment Environment `yaml:"environment"`
	Discovery   Discovery   `yaml:"discovery"`
	Bounds      Bounds      `yaml:"bounds"`

	ConflictStrategy string `yaml:"conflict_strategy"`
}

// Default returns a complete, internally-consistent default
// configuration, matching the illustrative values used throughout
// spec.md's worked examples.
func Default() Config {
	return Config{
		World: World{
			Seed:               42,
			TickIntervalMS:     1000,
			StartingEra:        "primitive",
			DecisionDeadlineMS: 2000,
		},
		Time: Time{
			TicksPerSeason: 90,
			Seasons:        []string{"spring", "summer", "autumn", "winter"},
			TicksPerDay:    24,
			DayNightToggle: true,
		},
		Population: Population{
			InitialAgents:       20,
			MaxAgents:           500,
			LifespanTicks:       100 * 360,
			ReproductionEnabled: true,
			ChildMaturityTicks:  18 * 360,
		},
		Economy: Economy{
			StartingWallet:    map[string]int64{"water": 2, "berry": 2},
			CarryCapacity:     50,
			HungerRate:        2,
			ThirstRate:        3,
			StarvationDamage:  5,
			DehydrationDamage: 7,
			RestRecovery:      10,
			NaturalHealRate:   2,
		},
		Environment: Environment{
			WeatherEnabled: true,
			SeasonsEnabled: true,
			StructureDecay: true,
		},
		Discovery: Discovery{
			AccidentalDiscoveryChance: 2,
			TeachBaseRate:             40,
		},
		Bounds: Bounds{
			MaxTicks:           0,
			MaxRealTimeSeconds: 0,
			EndCondition:       "any",
			MinPopulation:      2,
		},
		ConflictStrategy: "first_come_first_served",
	}
}

// Load reads and parses a YAML config file at path, applying Default()
// for any zero-valued section the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSeasons converts the configured season-name list to types.Season
// values, failing on an unrecognized name.
func (c Config) ParseSeasons() ([]types.Season, error) {
	out := make([]types.Season, 0, len(c.Time.Seasons))
	for _, name := range c.Time.Seasons {
		s, ok := seasonByName(name)
		if !ok {
			return nil, fmt.Errorf("config: unrecognized season %q", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func seasonByName(name string) (types.Season, bool) {
	switch name {
	case "spring":
		return types.SeasonSpring, true
	case "summer":
		return types.SeasonSummer, true
	case "autumn":
		return types.SeasonAutumn, true
	case "winter":
		return types.SeasonWinter, true
	default:
		return 0, false
	}
}

// ParseConflictStrategy converts the configured strategy name to a
// types.ConflictStrategy, defaulting to first-come-first-served for an
// unrecognized or empty value.
func (c Config) ParseConflictStrategy() types.ConflictStrategy {
	switch c.ConflictStrategy {
	case "random_weighted_by_skill":
		return types.ConflictRandomWeightedBySkill
	case "lowest_energy_first":
		return types.ConflictLowestEnergyFirst
	default:
		return types.ConflictFirstComeFirstServed
	}
}

// ParseStartingEra converts World.StartingEra to a types.Era, defaulting
// to the primitive era for an unrecognized or empty value, since every
// run starts there absent an explicit later-era override.
func (c Config) ParseStartingEra() types.Era {
	switch c.World.StartingEra {
	case "agricultural":
		return types.EraAgricultural
	case "industrial":
		return types.EraIndustrial
	case "information":
		return types.EraInformation
	default:
		return types.EraPrimitive
	}
}
