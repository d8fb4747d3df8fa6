// Package telemetry records what happens during play: per-frame traces,
// per-attempt run summaries and frame timing, written as CSV.
package telemetry

import "github.com/pthm-cable/subterra/systems"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventJump EventType = iota
	EventDoubleJump
	EventLand
	EventSlideStart
	EventSlideEnd
	EventStuck
	EventActivate
	EventTeleport
	EventDeath
	EventFinish
)

var eventNames = [...]string{
	EventJump:       "jump",
	EventDoubleJump: "double_jump",
	EventLand:       "land",
	EventSlideStart: "slide_start",
	EventSlideEnd:   "slide_end",
	EventStuck:      "stuck",
	EventActivate:   "activate",
	EventTeleport:   "teleport",
	EventDeath:      "death",
	EventFinish:     "finish",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type EventType
	Tick int

	// Teleporter ids for activate/teleport events
	From int
	To   int
}

// outcomeEvents maps controller events onto telemetry events, in the order
// they are reported.
var outcomeEvents = []struct {
	flag systems.Event
	typ  EventType
}{
	{systems.EventJump, EventJump},
	{systems.EventDoubleJump, EventDoubleJump},
	{systems.EventLand, EventLand},
	{systems.EventSlideStart, EventSlideStart},
	{systems.EventSlideEnd, EventSlideEnd},
	{systems.EventStuck, EventStuck},
	{systems.EventActivate, EventActivate},
	{systems.EventTeleport, EventTeleport},
	{systems.EventDeath, EventDeath},
	{systems.EventFinish, EventFinish},
}

// AppendEvents appends the events of one controller update to dst.
func AppendEvents(dst []Event, tick int, out systems.Outcome) []Event {
	if out.Events == 0 {
		return dst
	}
	for _, m := range outcomeEvents {
		if !out.Events.Has(m.flag) {
			continue
		}
		ev := Event{Type: m.typ, Tick: tick}
		switch m.typ {
		case EventActivate:
			ev.From = out.From
		case EventTeleport:
			ev.From, ev.To = out.From, out.To
		}
		dst = append(dst, ev)
	}
	return dst
}
