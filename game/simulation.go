package game

import (
	"log/slog"

	"github.com/pthm-cable/subterra/input"
	"github.com/pthm-cable/subterra/systems"
	"github.com/pthm-cable/subterra/telemetry"
)

// Step advances the game by one frame of dt seconds with the given input.
// Control actions (pause, restart, quit) are handled here; movement actions
// go to the controller. Every Step must be followed by EndFrame.
func (g *Game) Step(dt float64, in input.Snapshot) systems.Outcome {
	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseInput)

	if in.Held(input.Quit) {
		g.quit = true
	}
	if g.pause.Fire(in.Held(input.Pause)) {
		g.paused = !g.paused
		slog.Info("pause", "paused", g.paused, "tick", g.tick)
	}
	if g.restart.Fire(in.Held(input.Restart)) {
		g.paused = false
		g.Restart()
		return systems.Outcome{}
	}
	if g.paused {
		return systems.Outcome{}
	}
	if g.attemptClosed {
		if g.opts.AutoRestart {
			g.Restart()
		}
		return systems.Outcome{}
	}

	g.perf.StartPhase(telemetry.PhasePhysics)
	out := g.ctrl.Update(dt, in, g.surfaces)
	g.tick++

	g.perf.StartPhase(telemetry.PhaseSync)
	g.syncActor(dt, out)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.recordFrame(dt, out)
	return out
}

// EndFrame closes the frame's timing and flushes perf stats once per window.
func (g *Game) EndFrame() {
	g.perf.EndTick()
	g.flushPerf()
}

// syncActor copies the controller's body into the actor's ECS proxy and
// moves the camera with it.
func (g *Game) syncActor(dt float64, out systems.Outcome) {
	base := g.ctrl.Body().Base()
	g.bodyMap.Get(g.actor).Box = base

	if out.WorldShift != 0 {
		g.shift += out.WorldShift
		g.camera.Shift(0, float32(out.WorldShift))
	}
	c := base.Center()
	if out.Events.Has(systems.EventTeleport) {
		g.camera.CenterOn(float32(c.X), float32(c.Y))
		return
	}
	g.camera.Follow(float32(c.X), float32(c.Y), float32(dt))
}

// RunScript steps the game through every frame of a script at the script's
// frame time, stopping early after maxTicks frames (0 = no limit) or when
// the quit action is pressed.
func (g *Game) RunScript(s *input.Script, maxTicks int) {
	slog.Info("running script", "frames", s.Len(), "dt", s.DT, "max_ticks", maxTicks)
	for _, snap := range s.Snapshots() {
		if maxTicks > 0 && g.tick >= maxTicks {
			slog.Info("max ticks reached", "tick", g.tick)
			return
		}
		g.Step(s.DT, snap)
		g.EndFrame()
		if g.quit {
			return
		}
	}
}
