// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/subterra/geom"
	"github.com/pthm-cable/subterra/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig        `yaml:"screen"`
	Physics   PhysicsConfig       `yaml:"physics"`
	Actor     ActorConfig         `yaml:"actor"`
	Camera    CameraConfig        `yaml:"camera"`
	Telemetry TelemetryConfig     `yaml:"telemetry"`
	Keys      map[string][]string `yaml:"keys"` // action name -> raylib key names

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds actor movement parameters.
type PhysicsConfig struct {
	Gravity           float64 `yaml:"gravity"`
	TerminalVelocity  float64 `yaml:"terminal_velocity"`
	MoveSpeed         float64 `yaml:"move_speed"`
	AirControl        float64 `yaml:"air_control"` // Horizontal input scale while airborne
	JumpImpulse       float64 `yaml:"jump_impulse"`
	DoubleJumpImpulse float64 `yaml:"double_jump_impulse"`
	FrictionGain      float64 `yaml:"friction_gain"`
	StopEpsilon       float64 `yaml:"stop_epsilon"`
	WallBounce        float64 `yaml:"wall_bounce"` // vx multiplier when a slide hits a wall mid-air
	SlideBoost        float64 `yaml:"slide_boost"`
	FlySpeed          float64 `yaml:"fly_speed"`
	MaxStep           float64 `yaml:"max_step"` // Longest move per sub-step (0 = no sub-stepping)
	MaxSubsteps       int     `yaml:"max_substeps"`
	ScrollFollow      bool    `yaml:"scroll_follow"` // Move the world instead of the actor vertically
}

// ActorConfig holds the actor's standing shape.
type ActorConfig struct {
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
	Parts  []PartConfig `yaml:"parts"` // Collision parts; empty = one part covering the box
}

// PartConfig is one collision part, offset from the actor's origin.
type PartConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// CameraConfig holds follow camera parameters.
type CameraConfig struct {
	FollowRate float64 `yaml:"follow_rate"` // Fraction of the gap closed per second, as 1-exp(-rate*dt)
	Zoom       float64 `yaml:"zoom"`
	MinZoom    float64 `yaml:"min_zoom"`
	MaxZoom    float64 `yaml:"max_zoom"`
}

// TelemetryConfig holds output and performance settings.
type TelemetryConfig struct {
	PerfCollectorWindow int  `yaml:"perf_collector_window"` // Frames averaged per perf sample
	Trace               bool `yaml:"trace"`                 // Write one row per frame to trace.csv
	TraceEvery          int  `yaml:"trace_every"`           // Keep every Nth frame in the trace
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	FrameDT   float64 // 1 / Screen.TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Actor.Width <= 0 || c.Actor.Height <= 0 {
		return fmt.Errorf("actor: size %vx%v must be positive", c.Actor.Width, c.Actor.Height)
	}
	for i, p := range c.Actor.Parts {
		if p.W <= 0 || p.H <= 0 {
			return fmt.Errorf("actor: part %d: size %vx%v must be positive", i, p.W, p.H)
		}
	}
	if c.Physics.MaxStep < 0 || c.Physics.MaxSubsteps < 0 {
		return fmt.Errorf("physics: max_step and max_substeps must not be negative")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.FrameDT = 1.0 / 60
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameDT = 1 / float64(c.Screen.TargetFPS)
	}
	if c.Camera.Zoom == 0 {
		c.Camera.Zoom = 1
	}
	if c.Telemetry.TraceEvery < 1 {
		c.Telemetry.TraceEvery = 1
	}
}

// Tuning converts the physics section into controller constants.
func (c *Config) Tuning() systems.Tuning {
	p := c.Physics
	return systems.Tuning{
		Gravity:           p.Gravity,
		TerminalVelocity:  p.TerminalVelocity,
		MoveSpeed:         p.MoveSpeed,
		AirControl:        p.AirControl,
		JumpImpulse:       p.JumpImpulse,
		DoubleJumpImpulse: p.DoubleJumpImpulse,
		FrictionGain:      p.FrictionGain,
		StopEpsilon:       p.StopEpsilon,
		WallBounce:        p.WallBounce,
		SlideBoost:        p.SlideBoost,
		FlySpeed:          p.FlySpeed,
		MaxStep:           p.MaxStep,
		MaxSubsteps:       p.MaxSubsteps,
		ScrollFollow:      p.ScrollFollow,
	}
}

// ActorShape builds the actor's standing shape with its origin at at.
func (c *Config) ActorShape(at geom.Vec2) *geom.Composite {
	parts := make([]geom.Part, len(c.Actor.Parts))
	for i, p := range c.Actor.Parts {
		parts[i] = geom.Part{Offset: geom.V(p.X, p.Y), W: p.W, H: p.H}
	}
	return geom.NewComposite(geom.Box{Origin: at, W: c.Actor.Width, H: c.Actor.Height}, parts...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
