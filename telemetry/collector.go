package telemetry

import (
	"math"

	"github.com/pthm-cable/subterra/systems"
)

// Run outcomes.
const (
	OutcomeDeath     = "death"
	OutcomeFinish    = "finish"
	OutcomeRestart   = "restart"
	OutcomeAbandoned = "abandoned"
)

// FrameRecord is one row of trace.csv.
type FrameRecord struct {
	Attempt  int     `csv:"attempt"`
	Tick     int     `csv:"tick"`
	DT       float64 `csv:"dt"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	VX       float64 `csv:"vx"`
	VY       float64 `csv:"vy"`
	Grounded bool    `csv:"grounded"`
	Sliding  bool    `csv:"sliding"`
	Stuck    bool    `csv:"stuck"`
	Flying   bool    `csv:"flying"`
	Substeps int     `csv:"substeps"`
	Shift    float64 `csv:"world_shift"`
	Events   string  `csv:"events"`
}

// RunRecord summarizes one attempt at a level. It is one row of runs.csv.
type RunRecord struct {
	Attempt     int     `csv:"attempt"`
	Level       string  `csv:"level"`
	Outcome     string  `csv:"outcome"`
	Ticks       int     `csv:"ticks"`
	Seconds     float64 `csv:"seconds"`
	Jumps       int     `csv:"jumps"`
	DoubleJumps int     `csv:"double_jumps"`
	Slides      int     `csv:"slides"`
	Activations int     `csv:"activations"`
	Teleports   int     `csv:"teleports"`
	MaxSpeed    float64 `csv:"max_speed"`
	MeanSpeed   float64 `csv:"mean_speed"`
	MeanDT      float64 `csv:"mean_dt"`
	P95DT       float64 `csv:"p95_dt"`
}

// Collector accumulates frames and events for the running attempt.
type Collector struct {
	level   string
	attempt int

	ticks       int
	seconds     float64
	jumps       int
	doubleJumps int
	slides      int
	activations int
	teleports   int

	dts    []float64
	speeds []float64
	events []Event
}

// NewCollector creates a collector for attempts at the named level.
func NewCollector(level string) *Collector {
	return &Collector{level: level, attempt: 1}
}

// Attempt returns the number of the running attempt, starting at 1.
func (c *Collector) Attempt() int { return c.attempt }

// Ticks returns the frames recorded in the running attempt.
func (c *Collector) Ticks() int { return c.ticks }

// Events returns the events recorded in the running attempt. The slice stays
// valid after Flush; the next attempt records into fresh storage.
func (c *Collector) Events() []Event { return c.events }

// Record adds one controller update to the running attempt and returns its
// trace row.
func (c *Collector) Record(dt float64, s systems.State, out systems.Outcome) FrameRecord {
	c.ticks++
	c.seconds += dt
	c.dts = append(c.dts, dt)
	c.speeds = append(c.speeds, math.Hypot(s.Velocity.X, s.Velocity.Y))

	start := len(c.events)
	c.events = AppendEvents(c.events, c.ticks, out)
	names := ""
	for _, ev := range c.events[start:] {
		switch ev.Type {
		case EventJump:
			c.jumps++
		case EventDoubleJump:
			c.doubleJumps++
		case EventSlideStart:
			c.slides++
		case EventActivate:
			c.activations++
		case EventTeleport:
			c.teleports++
		}
		if names != "" {
			names += "|"
		}
		names += ev.Type.String()
	}

	return FrameRecord{
		Attempt:  c.attempt,
		Tick:     c.ticks,
		DT:       dt,
		X:        s.Position.X,
		Y:        s.Position.Y,
		VX:       s.Velocity.X,
		VY:       s.Velocity.Y,
		Grounded: s.Grounded,
		Sliding:  s.Sliding,
		Stuck:    s.Stuck,
		Flying:   s.Flying,
		Substeps: out.Substeps,
		Shift:    out.WorldShift,
		Events:   names,
	}
}

// Flush closes the running attempt with the given outcome, returns its
// record and starts the next attempt.
func (c *Collector) Flush(outcome string) RunRecord {
	r := RunRecord{
		Attempt:     c.attempt,
		Level:       c.level,
		Outcome:     outcome,
		Ticks:       c.ticks,
		Seconds:     c.seconds,
		Jumps:       c.jumps,
		DoubleJumps: c.doubleJumps,
		Slides:      c.slides,
		Activations: c.activations,
		Teleports:   c.teleports,
	}
	sum := Summarize(c.dts, c.speeds)
	r.MaxSpeed = sum.MaxSpeed
	r.MeanSpeed = sum.MeanSpeed
	r.MeanDT = sum.MeanDT
	r.P95DT = sum.P95DT

	next := NewCollector(c.level)
	next.attempt = c.attempt + 1
	*c = *next
	return r
}
