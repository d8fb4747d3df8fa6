package game

import (
	"log/slog"

	"github.com/pthm-cable/subterra/systems"
)

// logOutcome logs the lifecycle events of one update: teleporter use, death
// and finish. With LogEvents set, movement events are logged at debug level
// as well.
func (g *Game) logOutcome(out systems.Outcome) {
	if out.Events == 0 {
		return
	}
	pos := g.ctrl.Position()
	attempt := g.collector.Attempt()

	if out.Events.Has(systems.EventActivate) {
		slog.Info("teleporter activated", "attempt", attempt, "tick", g.tick, "from", out.From)
	}
	if out.Events.Has(systems.EventTeleport) {
		slog.Info("teleport",
			"attempt", attempt,
			"tick", g.tick,
			"from", out.From,
			"to", out.To,
			"world_shift", out.WorldShift,
		)
	}
	if out.Events.Has(systems.EventDeath) {
		slog.Info("death", "attempt", attempt, "tick", g.tick, "x", pos.X, "y", pos.Y)
	}
	if out.Events.Has(systems.EventFinish) {
		slog.Info("finish", "attempt", attempt, "tick", g.tick, "attempt_ticks", g.collector.Ticks())
	}

	if !g.opts.LogEvents {
		return
	}
	for _, m := range movementEvents {
		if out.Events.Has(m.flag) {
			slog.Debug(m.name, "attempt", attempt, "tick", g.tick, "x", pos.X, "y", pos.Y)
		}
	}
}

var movementEvents = []struct {
	flag systems.Event
	name string
}{
	{systems.EventJump, "jump"},
	{systems.EventDoubleJump, "double jump"},
	{systems.EventLand, "land"},
	{systems.EventSlideStart, "slide start"},
	{systems.EventSlideEnd, "slide end"},
	{systems.EventSlideRejected, "slide rejected"},
	{systems.EventStuck, "stuck"},
	{systems.EventFlyToggle, "fly toggled"},
}
