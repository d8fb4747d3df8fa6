package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/systems"
	"github.com/pthm-cable/subterra/telemetry"
)

// spawnLevel builds a fresh world from the level: one entity per surface
// plus the actor's proxy, and a new controller at the spawn point.
func (g *Game) spawnLevel() {
	g.world = ecs.NewWorld()
	g.bodyMap = ecs.NewMap1[components.Body](g.world)
	g.filter = ecs.NewFilter1[components.Body](g.world)

	for _, b := range g.level.Bodies() {
		g.bodyMap.NewEntity(&b)
	}

	spawn := g.level.SpawnPoint()
	shape := g.cfg.ActorShape(spawn)
	proxy := components.Body{Box: shape.Base(), Kind: components.KindControllable}
	g.actor = g.bodyMap.NewEntity(&proxy)

	// No entity is created or removed until the next spawnLevel, so these
	// pointers stay valid.
	g.surfaces = g.surfaces[:0]
	query := g.filter.Query()
	for query.Next() {
		b := query.Get()
		if b.Kind != components.KindControllable {
			g.surfaces = append(g.surfaces, b)
		}
	}

	g.ctrl = systems.NewController(g.cfg.Tuning(), shape, g.level.Network())
	g.attemptClosed = false
	g.shift = 0

	g.camera.SetBounds(g.level.Bounds())
	c := shape.Base().Center()
	g.camera.CenterOn(float32(c.X), float32(c.Y))
}

// Restart ends the running attempt, if it has not ended yet, and rebuilds
// the level from scratch.
func (g *Game) Restart() {
	if !g.attemptClosed && g.collector.Ticks() > 0 {
		g.closeAttempt(telemetry.OutcomeRestart)
	}
	g.spawnLevel()
	slog.Info("respawn", "level", g.level.Name, "attempt", g.collector.Attempt(), "tick", g.tick)
}

// closeAttempt records the attempt's summary and starts counting the next.
func (g *Game) closeAttempt(outcome string) {
	g.attemptClosed = true
	run := g.collector.Flush(outcome)
	g.runs = append(g.runs, run)
	slog.Info("attempt over", "run", run)
	if err := g.output.WriteRun(run); err != nil {
		slog.Error("failed to write run", "error", err)
	}
}
