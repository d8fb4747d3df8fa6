// Package systems contains the per-frame simulation systems: the actor
// controller and the teleport network it drives.
package systems

import (
	"math"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/geom"
	"github.com/pthm-cable/subterra/input"
)

// Event is a set of things that happened during one Update.
type Event uint16

const (
	EventJump Event = 1 << iota
	EventDoubleJump
	EventLand
	EventSlideStart
	EventSlideEnd
	EventSlideRejected
	EventStuck
	EventFlyToggle
	EventActivate
	EventTeleport
	EventDeath
	EventFinish
)

// Has reports whether every event in f is set.
func (e Event) Has(f Event) bool { return e&f == f }

// Outcome summarizes one Update.
type Outcome struct {
	Events     Event
	Substeps   int
	WorldShift float64 // total vertical offset applied to every surface
	From, To   int     // teleporter ids for EventActivate (From) and EventTeleport
}

// State is a read-only view of the controller for telemetry and UI.
type State struct {
	Position      geom.Vec2
	Velocity      geom.Vec2
	Grounded      bool
	Sliding       bool
	Stuck         bool
	Flying        bool
	Alive         bool
	Finished      bool
	CanDoubleJump bool
}

// Controller moves one actor through a set of static bodies. Every change of
// position or shape is tested on geometry first and committed only if the
// result does not overlap a surface.
type Controller struct {
	tuning   Tuning
	standing *geom.Composite
	body     *geom.Composite
	vel      geom.Vec2

	grounded           bool
	sliding            bool
	stuck              bool
	standPending       bool
	canDoubleJump      bool
	jumpArmed          bool
	jumpedWhileSliding bool
	flying             bool
	alive              bool
	finished           bool

	slide input.Latch
	fly   input.Latch

	groundFriction float64 // friction of the surface the last landing rested on

	network  *TeleportNetwork
	touching []int
	previous []int
	contacts []int
	solid    []int
}

// NewController creates a controller whose standing shape is shape, spawned
// at shape's origin. network may be nil for levels without teleporters.
func NewController(t Tuning, shape *geom.Composite, network *TeleportNetwork) *Controller {
	c := &Controller{
		tuning:   t,
		standing: shape.Clone(),
		network:  network,
	}
	c.Respawn(shape.Origin())
	return c
}

// Respawn replaces the body with a fresh standing shape at the given origin
// and resets every flag. The teleport network keeps its activations.
func (c *Controller) Respawn(at geom.Vec2) {
	c.body = c.standing.Clone()
	c.body.SetOrigin(at)
	c.vel = geom.Vec2{}
	c.grounded = false
	c.sliding = false
	c.stuck = false
	c.standPending = false
	c.canDoubleJump = true
	c.jumpArmed = true
	c.jumpedWhileSliding = false
	c.groundFriction = 0
	c.flying = false
	c.alive = true
	c.finished = false
	c.slide = input.NewLatch()
	c.fly = input.NewLatch()
	c.touching = c.touching[:0]
	c.previous = c.previous[:0]
}

func (c *Controller) Body() *geom.Composite { return c.body }
func (c *Controller) Position() geom.Vec2 { return c.body.Origin() }
func (c *Controller) Velocity() geom.Vec2 { return c.vel }
func (c *Controller) Grounded() bool { return c.grounded }
func (c *Controller) Sliding() bool { return c.sliding }
func (c *Controller) Stuck() bool { return c.stuck }
func (c *Controller) Flying() bool { return c.flying }
func (c *Controller) Alive() bool { return c.alive }
func (c *Controller) Finished() bool { return c.finished }
func (c *Controller) CanDoubleJump() bool { return c.canDoubleJump }
func (c *Controller) Tuning() Tuning { return c.tuning }
func (c *Controller) Network() *TeleportNetwork { return c.network }

// SetVelocity overrides the current velocity.
func (c *Controller) SetVelocity(v geom.Vec2) { c.vel = v }

// State returns a snapshot of position, velocity and flags.
func (c *Controller) State() State {
	return State{
		Position:      c.body.Origin(),
		Velocity:      c.vel,
		Grounded:      c.grounded,
		Sliding:       c.sliding,
		Stuck:         c.stuck,
		Flying:        c.flying,
		Alive:         c.alive,
		Finished:      c.finished,
		CanDoubleJump: c.canDoubleJump,
	}
}

// Update advances the actor by dt seconds. It may shift the vertical origin of
// every surface (teleport relocation, scroll follow). A dead or finished
// actor is left untouched until Respawn.
func (c *Controller) Update(dt float64, in input.Snapshot, surfaces []*components.Body) Outcome {
	var out Outcome
	if !c.alive || c.finished || !(dt > 0) {
		return out
	}
	c.touching = c.touching[:0]
	defer c.rotateTouches()

	wasGrounded := c.grounded

	c.applyGravity(dt, in, &out)
	if !c.flying {
		c.applyJump(in, &out)
	}
	c.applyHorizontalInput(in, surfaces, &out)
	c.applySlide(in, surfaces, &out)

	n := c.substeps(dt)
	h := dt / float64(n)
	out.Substeps = n
	c.grounded = false
	for i := 0; i < n; i++ {
		if c.resolveVertical(h, surfaces, &out) {
			return out
		}
		if c.resolveHorizontal(h, surfaces, &out) {
			return out
		}
	}

	if c.grounded {
		c.applyGround(dt, surfaces, &out)
		c.canDoubleJump = true
		if !wasGrounded {
			out.Events |= EventLand
		}
	}
	return out
}

func (c *Controller) rotateTouches() {
	c.previous, c.touching = c.touching, c.previous[:0]
}

// applyGravity integrates gravity, or handles fly controls while flying.
func (c *Controller) applyGravity(dt float64, in input.Snapshot, out *Outcome) {
	if c.fly.Fire(in.Held(input.ToggleFly)) {
		c.flying = !c.flying
		c.vel.Y = 0
		out.Events |= EventFlyToggle
	}

	if c.flying {
		c.vel.Y = 0
		if in.Held(input.Jump) {
			c.vel.Y -= c.tuning.FlySpeed
		}
		if in.Held(input.Slide) {
			c.vel.Y += c.tuning.FlySpeed
		}
		return
	}

	c.vel.Y += c.tuning.Gravity * dt
	if c.vel.Y > c.tuning.TerminalVelocity {
		c.vel.Y = c.tuning.TerminalVelocity
	}
}

// applyJump handles ground jumps and the edge-triggered double jump.
func (c *Controller) applyJump(in input.Snapshot, out *Outcome) {
	held := in.Held(input.Jump)
	triggered := false
	if held {
		switch {
		case c.grounded && !c.jumpedWhileSliding:
			c.vel.Y = -c.tuning.JumpImpulse
			c.grounded = false
			if c.sliding {
				c.jumpedWhileSliding = true
			}
			triggered = true
			out.Events |= EventJump
		case !c.grounded && c.canDoubleJump && c.jumpArmed && !c.jumpedWhileSliding:
			c.vel.Y = -c.tuning.DoubleJumpImpulse
			c.canDoubleJump = false
			triggered = true
			out.Events |= EventDoubleJump
		}
	}
	c.jumpArmed = input.Rearm(c.jumpArmed, held, triggered)
}

// applyHorizontalInput sets horizontal speed from left/right input.
// A slide keeps its momentum unless the actor is stuck under something, in
// which case input first tries to stand and then crawls.
func (c *Controller) applyHorizontalInput(in input.Snapshot, surfaces []*components.Body, out *Outcome) {
	dir := in.Horizontal()
	if c.flying {
		c.vel.X = dir * c.tuning.FlySpeed
		return
	}
	if dir == 0 {
		return
	}
	if c.sliding {
		if !c.stuck {
			return
		}
		c.tryStand(surfaces, out)
	}
	speed := c.tuning.MoveSpeed
	if !c.grounded {
		speed *= c.tuning.AirControl
	}
	c.vel.X = dir * speed
}

// applySlide enters a slide on a fresh press and stands up on release.
// Both shape changes are tested on a swapped copy before they are applied.
func (c *Controller) applySlide(in input.Snapshot, surfaces []*components.Body, out *Outcome) {
	held := in.Held(input.Slide)
	start := c.slide.Fire(held)
	if c.flying {
		return
	}

	switch {
	case !c.sliding && start:
		slid := c.body.Swapped()
		if c.blocked(slid, geom.Vec2{}, surfaces, false) {
			out.Events |= EventSlideRejected
			return
		}
		c.body = slid
		c.sliding = true
		c.stuck = false
		c.standPending = false
		c.vel.X *= c.tuning.SlideBoost
		out.Events |= EventSlideStart
	case c.sliding && (!held || c.standPending):
		c.tryStand(surfaces, out)
	}
}

// tryStand swaps back to the standing shape if nothing is in the way.
// Otherwise the actor stays in the slide shape and is marked stuck.
func (c *Controller) tryStand(surfaces []*components.Body, out *Outcome) bool {
	stood := c.body.Swapped()
	if c.blocked(stood, geom.Vec2{}, surfaces, false) {
		if !c.stuck {
			out.Events |= EventStuck
		}
		c.stuck = true
		return false
	}
	c.body = stood
	c.sliding = false
	c.stuck = false
	c.standPending = false
	out.Events |= EventSlideEnd
	return true
}

// substeps splits a frame so no sub-step moves farther than MaxStep.
func (c *Controller) substeps(dt float64) int {
	if c.tuning.MaxStep <= 0 {
		return 1
	}
	d := math.Max(math.Abs(c.vel.X), math.Abs(c.vel.Y)) * dt
	n := int(math.Ceil(d / c.tuning.MaxStep))
	if n < 1 {
		n = 1
	}
	if c.tuning.MaxSubsteps > 0 && n > c.tuning.MaxSubsteps {
		n = c.tuning.MaxSubsteps
	}
	return n
}
