package main

import (
	"github.com/pthm-cable/subterra/config"
)

// ParamSpec defines a single tunable physics parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the jump-feel parameter set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "jump_impulse", Path: "physics.jump_impulse", Min: 300, Max: 1500},
			{Name: "double_jump_impulse", Path: "physics.double_jump_impulse", Min: 200, Max: 1200},
			{Name: "gravity", Path: "physics.gravity", Min: 600, Max: 4000},
			{Name: "move_speed", Path: "physics.move_speed", Min: 100, Max: 800},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// FromConfig reads the current parameter values from cfg.
func (pv *ParamVector) FromConfig(cfg *config.Config) []float64 {
	p := cfg.Physics
	return []float64{p.JumpImpulse, p.DoubleJumpImpulse, p.Gravity, p.MoveSpeed}
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values, clamped
// to bounds.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := spec.Min + normalized[i]*(spec.Max-spec.Min)
		raw[i] = min(max(v, spec.Min), spec.Max)
	}
	return raw
}

// ApplyToConfig writes parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	cfg.Physics.JumpImpulse = values[0]
	cfg.Physics.DoubleJumpImpulse = values[1]
	cfg.Physics.Gravity = values[2]
	cfg.Physics.MoveSpeed = values[3]
}
