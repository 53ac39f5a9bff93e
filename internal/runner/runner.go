// Package runner implements the bounded simulation loop: pause/resume/
// speed control, termination conditions, and auto-recovery spawning
// when the population falls below a configured floor. Grounded on the
// teacher's internal/engine/tick.go Engine.Run()/Stop() (the base
// tick-interval sleep loop with a Speed multiplier is the closest
// 1:1 match anywhere in the teacher repo) and
// original_source/crates/emergence-core/src/runner.rs's
// run_simulation_with_spawner for termination-condition precedence
// (operator stop > time limit > extinction > max ticks) and the
// auto-recovery-before-declaring-extinction sequencing.
package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/orchestrator"
)

// EndReason is why a Run call returned.
type EndReason string

const (
	EndMaxTicksReached    EndReason = "max_ticks_reached"
	EndMaxRealTimeReached EndReason = "max_real_time_reached"
	EndExtinction         EndReason = "extinction"
	EndOperatorStop       EndReason = "operator_stop"
	EndLedgerAnomaly      EndReason = "ledger_anomaly"
)

// Spawner creates one new agent into the engine's world, returning
// false if it could not (e.g. no valid location configured). Supplied
// by the caller (cmd/emergence) since only it knows how to mint a
// fresh Identity/State pair for this run's world.
type Spawner func(e *orchestrator.Engine) bool

// Config holds the loop's tunable bounds (spec §6 "bounds" section).
type Config struct {
	MaxTicks           uint64 // 0 = unbounded
	MaxRealTimeSeconds int    // 0 = unbounded
	MinPopulation      int    // 0 = auto-recovery disabled
}

// Result describes why a Run call ended and the state it ended in.
type Result struct {
	EndReason   EndReason
	TotalTicks  uint64
	LastVerdict ledger.Verdict
}

// Runner drives an orchestrator.Engine through a bounded sequence of
// ticks at a configurable speed, with operator pause/resume/stop
// control safe to call from another goroutine.
type Runner struct {
	Engine   *orchestrator.Engine
	Config   Config
	Spawn    Spawner
	Interval time.Duration // base real-time duration per tick at Speed=1.0

	mu            sync.Mutex
	speed         float64 // 0 = paused, 1.0 = real-time
	stopRequested bool
}

// New constructs a Runner at real-time speed (1.0), 1-second base
// interval, matching the teacher's NewEngine defaults.
func New(e *orchestrator.Engine, cfg Config, spawn Spawner) *Runner {
	return &Runner{
		Engine:   e,
		Config:   cfg,
		Spawn:    spawn,
		Interval: time.Second,
		speed:    1.0,
	}
}

// SetSpeed adjusts the tick-loop speed multiplier; 0 pauses the loop
// (Run blocks in a short poll sleep until a nonzero speed is set or
// Stop is called), matching the teacher's Engine.Speed semantics.
func (r *Runner) SetSpeed(speed float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.speed = speed
}

// Pause is shorthand for SetSpeed(0).
func (r *Runner) Pause() { r.SetSpeed(0) }

// Resume is shorthand for SetSpeed(1.0).
func (r *Runner) Resume() { r.SetSpeed(1.0) }

func (r *Runner) currentSpeed() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.speed
}

// Stop requests the loop to exit at the next opportunity (before its
// next tick executes). Safe to call from another goroutine.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopRequested = true
}

func (r *Runner) stopWasRequested() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopRequested
}

// Run executes ticks until a termination condition is met: an operator
// stop request, the real-time budget expiring, extinction (with
// auto-recovery attempted first if MinPopulation > 0), a ledger
// conservation anomaly, or MaxTicks being reached. ctx cancellation is
// treated the same as an operator stop.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var totalTicks uint64
	var lastVerdict ledger.Verdict

	slog.Info("runner starting", "max_ticks", r.Config.MaxTicks, "max_real_time_seconds", r.Config.MaxRealTimeSeconds, "min_population", r.Config.MinPopulation)

	for {
		for r.currentSpeed() <= 0 {
			if r.stopWasRequested() || ctx.Err() != nil {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}

		if r.stopWasRequested() || ctx.Err() != nil {
			slog.Info("runner stopping: operator stop requested", "total_ticks", totalTicks)
			return Result{EndReason: EndOperatorStop, TotalTicks: totalTicks, LastVerdict: lastVerdict}, nil
		}

		if r.Config.MaxRealTimeSeconds > 0 && time.Since(start) >= time.Duration(r.Config.MaxRealTimeSeconds)*time.Second {
			slog.Info("runner stopping: real-time limit reached", "elapsed", time.Since(start))
			return Result{EndReason: EndMaxRealTimeReached, TotalTicks: totalTicks, LastVerdict: lastVerdict}, nil
		}

		tickStart := time.Now()
		verdict, err := r.Engine.Step(ctx)
		if err != nil {
			return Result{EndReason: EndOperatorStop, TotalTicks: totalTicks, LastVerdict: lastVerdict}, err
		}
		lastVerdict = verdict
		totalTicks++

		if !verdict.Balanced {
			slog.Error("runner stopping: ledger conservation anomaly", "message", verdict.Anomaly.Message)
			return Result{EndReason: EndLedgerAnomaly, TotalTicks: totalTicks, LastVerdict: lastVerdict}, nil
		}

		alive := r.Engine.AlivePopulation()
		if alive == 0 {
			if r.Config.MinPopulation > 0 && r.Spawn != nil {
				r.autoSpawn(r.Config.MinPopulation)
				alive = r.Engine.AlivePopulation()
			}
			if alive == 0 {
				slog.Info("runner stopping: extinction", "total_ticks", totalTicks)
				return Result{EndReason: EndExtinction, TotalTicks: totalTicks, LastVerdict: lastVerdict}, nil
			}
		} else if r.Config.MinPopulation > 0 && alive < r.Config.MinPopulation && r.Spawn != nil {
			r.autoSpawn(r.Config.MinPopulation - alive)
		}

		if r.Config.MaxTicks > 0 && totalTicks >= r.Config.MaxTicks {
			slog.Info("runner stopping: max ticks reached", "total_ticks", totalTicks)
			return Result{EndReason: EndMaxTicksReached, TotalTicks: totalTicks, LastVerdict: lastVerdict}, nil
		}

		elapsed := time.Since(tickStart)
		speed := r.currentSpeed()
		if speed <= 0 {
			continue
		}
		target := time.Duration(float64(r.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}
}

func (r *Runner) autoSpawn(n int) {
	spawned := 0
	for i := 0; i < n; i++ {
		if r.Spawn(r.Engine) {
			spawned++
		}
	}
	slog.Warn("auto-recovery spawn", "requested", n, "spawned", spawned)
}
