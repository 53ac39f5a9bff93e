// Command emergence runs the civilization simulation core: it loads the
// run configuration, opens the sqlite snapshot (generating a fresh world
// on first run, resuming an in-progress one otherwise), and drives the
// tick loop until a termination condition or an operator signal stops
// it. Grounded on the teacher's cmd/worldsim/main.go wiring order
// (database open, load-or-generate branch, engine construction, signal
// handling, final save on shutdown).
package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/clock"
	"github.com/emergence-sim/emergence/internal/config"
	"github.com/emergence-sim/emergence/internal/decision"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/orchestrator"
	"github.com/emergence-sim/emergence/internal/persistence"
	"github.com/emergence-sim/emergence/internal/runner"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
	"github.com/emergence-sim/emergence/internal/worldinit"
)

const (
	configPath = "config.yaml"
	dbPath     = "data/emergence.db"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("emergence starting")

	cfg, err := loadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll("data", 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	seasons, err := cfg.ParseSeasons()
	if err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.World.Seed), uint64(cfg.World.Seed)>>1|1))

	var (
		c               *clock.Clock
		g               *worldgraph.Graph
		structs         *worldgraph.StructureRegistry
		agents          map[ids.AgentID]*agent.State
		identities      *agent.Registry
		l               = ledger.New()
		persistedLedger int
	)

	if db.HasWorldState() {
		slog.Info("found saved world state, loading...")
		snap, err := db.LoadWorld()
		if err != nil {
			slog.Error("failed to load world", "error", err)
			os.Exit(1)
		}
		g = snap.Graph
		structs = snap.Structures
		agents = snap.Agents
		identities = snap.Identities

		entries, err := db.LoadLedgerEntries()
		if err != nil {
			slog.Error("failed to load ledger", "error", err)
			os.Exit(1)
		}
		l.Restore(entries)
		persistedLedger = len(entries)

		tick, era := restoreClockMeta(db)
		c, err = clock.FromParts(tick, era, cfg.Time.TicksPerSeason, seasons, cfg.Time.TicksPerDay)
		if err != nil {
			slog.Error("invalid time config", "error", err)
			os.Exit(1)
		}
		slog.Info("world state restored", "agents", len(agents), "locations", len(g.Locations()), "tick", tick, "era", era)
	} else {
		slog.Info("no saved state found, generating new world...")
		g = worldinit.GenerateGraph()
		structs = worldgraph.NewStructureRegistry()
		identities = agent.NewRegistry()

		home, err := worldinit.HomeLocation(g)
		if err != nil {
			slog.Error("world generation failed", "error", err)
			os.Exit(1)
		}
		idents, states := worldinit.SeedPopulation(cfg, home, rng)
		agents = make(map[ids.AgentID]*agent.State, len(states))
		for i, ident := range idents {
			identities.Register(ident)
			agents[states[i].ID] = states[i]
			if err := g.PlaceAgent(states[i].ID, home); err != nil {
				slog.Error("failed to place founding agent", "error", err)
				os.Exit(1)
			}
		}

		c, err = clock.FromParts(0, cfg.ParseStartingEra(), cfg.Time.TicksPerSeason, seasons, cfg.Time.TicksPerDay)
		if err != nil {
			slog.Error("invalid time config", "error", err)
			os.Exit(1)
		}
		slog.Info("world generated", "locations", len(g.Locations()), "routes", len(g.Routes()), "agents", len(agents))
	}

	eng := orchestrator.New(c, g, l, decision.NoActionSource{}, rng)
	eng.Structures = structs
	eng.Agents = agents
	eng.Identities = identities
	eng.ConflictStrategy = cfg.ParseConflictStrategy()
	eng.WeatherEnabled = cfg.Environment.WeatherEnabled
	eng.SeasonsEnabled = cfg.Environment.SeasonsEnabled
	eng.StructureDecay = cfg.Environment.StructureDecay
	eng.AccidentalDiscoveryChance = cfg.Discovery.AccidentalDiscoveryChance
	eng.TeachBaseRate = cfg.Discovery.TeachBaseRate

	home, err := worldinit.HomeLocation(g)
	if err != nil {
		slog.Error("world has no home location", "error", err)
		os.Exit(1)
	}
	spawn := func(e *orchestrator.Engine) bool {
		ident, s := worldinit.SpawnOne(cfg, home, rng, 0)
		if err := e.AddAgent(ident, s); err != nil {
			slog.Warn("auto-recovery spawn failed", "error", err)
			return false
		}
		return true
	}

	run := runner.New(eng, runner.Config{
		MaxTicks:           cfg.Bounds.MaxTicks,
		MaxRealTimeSeconds: cfg.Bounds.MaxRealTimeSeconds,
		MinPopulation:      cfg.Bounds.MinPopulation,
	}, spawn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		run.Stop()
		cancel()
	}()

	slog.Info("simulation starting", "agents", eng.AlivePopulation(), "tick", c.Tick())
	result, err := run.Run(ctx)
	if err != nil {
		slog.Error("simulation stopped with error", "error", err)
	}
	slog.Info("simulation ended", "reason", result.EndReason, "total_ticks", result.TotalTicks)

	// Run() returns only after the tick loop itself has stopped, so
	// reading Agents/Ledger/Bus here is single-threaded and safe — no
	// other goroutine ever mutates them concurrently.
	if all := l.All(); len(all) > persistedLedger {
		if err := db.AppendLedgerEntries(all[persistedLedger:]); err != nil {
			slog.Error("final ledger append failed", "error", err)
		}
	}
	if tail := eng.Bus.Log(); len(tail) > 0 {
		if err := db.AppendEvents(tail); err != nil {
			slog.Error("final event append failed", "error", err)
		}
	}

	if err := db.SaveWorld(g, structs, agents, identities); err != nil {
		slog.Error("final save failed", "error", err)
	}
	if err := db.SaveMeta("tick", strconv.FormatUint(c.Tick(), 10)); err != nil {
		slog.Error("final tick save failed", "error", err)
	}
	if err := db.SaveMeta("era", strconv.FormatUint(uint64(c.Era()), 10)); err != nil {
		slog.Error("final era save failed", "error", err)
	}
	slog.Info("world state saved, exiting")
}

func loadConfig(path string) (config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		slog.Info("no config file found, using defaults", "path", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

func restoreClockMeta(db *persistence.DB) (uint64, types.Era) {
	tick := uint64(0)
	if s, err := db.GetMeta("tick"); err == nil {
		if t, err := strconv.ParseUint(s, 10, 64); err == nil {
			tick = t
		}
	}
	era := types.EraPrimitive
	if s, err := db.GetMeta("era"); err == nil {
		if e, err := strconv.ParseUint(s, 10, 8); err == nil {
			era = types.Era(e)
		}
	}
	return tick, era
}
