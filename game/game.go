// Package game runs a level: it owns the ECS world holding the level's
// bodies, the actor controller, the camera and telemetry. It has no window
// dependency; drawing and key polling live in package ui.
package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/subterra/camera"
	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/config"
	"github.com/pthm-cable/subterra/input"
	"github.com/pthm-cable/subterra/level"
	"github.com/pthm-cable/subterra/systems"
	"github.com/pthm-cable/subterra/telemetry"
)

// Options configures a game.
type Options struct {
	Config      *config.Config
	Level       *level.Level
	OutputDir   string // CSV output; empty disables it
	AutoRestart bool   // Restart right after death or finish (headless runs)
	LogEvents   bool   // Log every controller event, not just lifecycle changes
}

// Game holds the complete game state.
type Game struct {
	cfg   *config.Config
	level *level.Level
	opts  Options

	world   *ecs.World
	bodyMap *ecs.Map1[components.Body]
	filter  *ecs.Filter1[components.Body]
	actor   ecs.Entity

	// Pointers into ECS storage; valid until the world is rebuilt
	surfaces []*components.Body

	ctrl   *systems.Controller
	camera *camera.Camera

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	runs      []telemetry.RunRecord

	pause   input.Latch
	restart input.Latch

	shift         float64 // total vertical world shift since spawn
	tick          int
	paused        bool
	quit          bool
	attemptClosed bool
}

// New creates a game on the given level and spawns the actor.
func New(opts Options) (*Game, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("game: no config")
	}
	if opts.Level == nil {
		opts.Level = level.Default()
	}
	cfg := opts.Config

	output, err := telemetry.NewOutputManager(opts.OutputDir, cfg.Telemetry.Trace)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	g := &Game{
		cfg:       cfg,
		level:     opts.Level,
		opts:      opts,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(opts.Level.Name),
		output:    output,
		pause:     input.NewLatch(),
		restart:   input.NewLatch(),
	}

	spawn := opts.Level.SpawnPoint()
	g.camera = camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, float32(spawn.X), float32(spawn.Y))
	g.camera.FollowRate = float32(cfg.Camera.FollowRate)
	g.camera.MinZoom = float32(cfg.Camera.MinZoom)
	g.camera.MaxZoom = float32(cfg.Camera.MaxZoom)
	g.camera.SetZoom(float32(cfg.Camera.Zoom))

	g.spawnLevel()
	if thin := g.level.ThinSurfaces(cfg.Physics.MaxStep); len(thin) > 0 {
		slog.Warn("surfaces thinner than one sub-step", "level", g.level.Name, "surfaces", thin, "max_step", cfg.Physics.MaxStep)
	}
	slog.Info("level loaded",
		"level", g.level.Name,
		"surfaces", len(g.surfaces),
		"teleporters", g.ctrl.Network().Len(),
		"spawn", spawn.String(),
	)
	return g, nil
}

// Controller returns the actor controller.
func (g *Game) Controller() *systems.Controller { return g.ctrl }

// Camera returns the follow camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Config returns the configuration the game was created with.
func (g *Game) Config() *config.Config { return g.cfg }

// Level returns the level being played.
func (g *Game) Level() *level.Level { return g.level }

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// Tick returns the number of frames stepped since the game started.
func (g *Game) Tick() int { return g.tick }

// Attempt returns the running attempt number, starting at 1.
func (g *Game) Attempt() int { return g.collector.Attempt() }

// Runs returns the records of every finished attempt.
func (g *Game) Runs() []telemetry.RunRecord { return g.runs }

// Paused reports whether stepping is frozen.
func (g *Game) Paused() bool { return g.paused }

// SetPaused freezes or resumes stepping.
func (g *Game) SetPaused(p bool) { g.paused = p }

// QuitRequested reports whether the quit action was pressed.
func (g *Game) QuitRequested() bool { return g.quit }

// Surfaces returns the level's bodies in their current (possibly shifted)
// position. The slice must not be modified.
func (g *Game) Surfaces() []*components.Body { return g.surfaces }

// WorldShift returns how far every surface has moved vertically since the
// level was spawned.
func (g *Game) WorldShift() float64 { return g.shift }

// EachBody calls fn for every body in the world, the actor's proxy included.
func (g *Game) EachBody(fn func(b *components.Body)) {
	query := g.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// Close ends the running attempt and closes the output files.
func (g *Game) Close() error {
	if !g.attemptClosed && g.collector.Ticks() > 0 {
		g.closeAttempt(telemetry.OutcomeAbandoned)
	}
	return g.output.Close()
}
