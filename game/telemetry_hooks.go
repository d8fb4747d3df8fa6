package game

import (
	"log/slog"

	"github.com/pthm-cable/subterra/systems"
	"github.com/pthm-cable/subterra/telemetry"
)

// recordFrame feeds one controller update to the collector, writes the trace
// row and closes the attempt when the actor died or reached the finish.
func (g *Game) recordFrame(dt float64, out systems.Outcome) {
	frame := g.collector.Record(dt, g.ctrl.State(), out)

	if every := g.cfg.Telemetry.TraceEvery; every > 0 && frame.Tick%every == 0 {
		if err := g.output.WriteFrame(frame); err != nil {
			slog.Error("failed to write trace", "error", err)
		}
	}

	g.logOutcome(out)

	switch {
	case out.Events.Has(systems.EventDeath):
		g.closeAttempt(telemetry.OutcomeDeath)
	case out.Events.Has(systems.EventFinish):
		g.closeAttempt(telemetry.OutcomeFinish)
	}
}

// flushPerf writes the frame timing window once it is complete.
func (g *Game) flushPerf() {
	if !g.perf.WindowFull() {
		return
	}
	stats := g.perf.Stats()
	if g.opts.LogEvents {
		slog.Info("perf", "tick", g.tick, "stats", stats)
	}
	if err := g.output.WritePerf(stats, g.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
