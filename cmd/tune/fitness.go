package main

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/config"
	"github.com/pthm-cable/subterra/geom"
	"github.com/pthm-cable/subterra/input"
	"github.com/pthm-cable/subterra/systems"
)

// maxFlightFrames bounds a measured jump; a jump still airborne after it
// is scored as if it landed then.
const maxFlightFrames = 600

// Metrics describes how a tuning feels on flat ground.
type Metrics struct {
	Apex       float64 `csv:"apex"`        // Height of a single jump
	DoubleApex float64 `csv:"double_apex"` // Height with a double jump at the first apex
	Airtime    float64 `csv:"airtime"`     // Seconds airborne for a single jump
	Distance   float64 `csv:"distance"`    // Horizontal reach of a running single jump
}

// Targets are the metrics the tuner aims for. Zero fields are ignored.
type Targets struct {
	Apex       float64
	DoubleApex float64
	Airtime    float64
	Distance   float64
}

// FitnessEvaluator scores parameter vectors against targets.
type FitnessEvaluator struct {
	params  *ParamVector
	base    *config.Config
	targets Targets
	dt      float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, base *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:  params,
		base:    base,
		targets: targets,
		dt:      base.Derived.FrameDT,
	}
}

// Evaluate returns the squared relative error of the metrics produced by
// raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(raw []float64) (float64, Metrics) {
	cfg := *fe.base
	fe.params.ApplyToConfig(&cfg, raw)
	m := Measure(cfg.Tuning(), cfg.ActorShape(geom.Vec2{}), fe.dt)
	return fe.loss(m), m
}

func (fe *FitnessEvaluator) loss(m Metrics) float64 {
	var sum float64
	add := func(got, want float64) {
		if want > 0 {
			d := (got - want) / want
			sum += d * d
		}
	}
	add(m.Apex, fe.targets.Apex)
	add(m.DoubleApex, fe.targets.DoubleApex)
	add(m.Airtime, fe.targets.Airtime)
	add(m.Distance, fe.targets.Distance)
	return sum
}

// Measure runs the controller on a flat floor and records the jump metrics.
func Measure(t systems.Tuning, shape *geom.Composite, dt float64) Metrics {
	apex, airtime, distance := flight(t, shape, dt, false)
	doubleApex, _, _ := flight(t, shape, dt, true)
	return Metrics{Apex: apex, DoubleApex: doubleApex, Airtime: airtime, Distance: distance}
}

// flight makes one running jump from rest and follows it until landing.
func flight(t systems.Tuning, shape *geom.Composite, dt float64, double bool) (apex, airtime, distance float64) {
	floor := &components.Body{Box: geom.NewBox(-1e6, 0, 2e6, 100)}
	surfaces := []*components.Body{floor}

	body := shape.Clone()
	body.SetOrigin(geom.V(0, -body.Base().H))
	c := systems.NewController(t, body, nil)

	// Settle onto the floor first.
	c.Update(dt, input.Snapshot{}, surfaces)
	if !c.Grounded() {
		slog.Warn("actor did not settle on the floor")
		return 0, 0, 0
	}

	start := c.Position()
	top := start.Y
	run := input.Hold(input.MoveRight)
	c.Update(dt, run.With(input.Jump), surfaces)

	doubled := false
	frames := 1
	for ; frames < maxFlightFrames && !c.Grounded(); frames++ {
		in := run
		if double && !doubled && c.Velocity().Y >= 0 {
			in = in.With(input.Jump)
			doubled = true
		}
		c.Update(dt, in, surfaces)
		top = math.Min(top, c.Position().Y)
	}

	return start.Y - top, float64(frames) * dt, c.Position().X - start.X
}
