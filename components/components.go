// Package components defines ECS components for level bodies.
package components

import "github.com/pthm-cable/subterra/geom"

// Kind discriminates what a body does on contact.
type Kind uint8

const (
	KindPlain        Kind = iota // Solid ground or wall
	KindLethal                   // Kills the actor on touch
	KindFinish                   // Completes the level on touch
	KindTeleport                 // Solid, and part of the teleport network
	KindControllable             // The actor's proxy; never collided against
)

// Body is a static axis-aligned body placed in the level.
// The only mutation allowed after spawn is a vertical shift of the origin.
type Body struct {
	Box      geom.Box
	Kind     Kind
	Friction float64 // <0 drags a grounded actor, >0 accelerates it (ice)
	Teleport int     // Teleporter id; meaningful only for KindTeleport
}

// Bounds returns the body's box. A nil body has an empty box and collides with nothing.
func (b *Body) Bounds() geom.Box {
	if b == nil {
		return geom.Box{}
	}
	return b.Box
}

// Solid reports whether the body stops movement.
func (b *Body) Solid() bool {
	return b != nil && (b.Kind == KindPlain || b.Kind == KindTeleport)
}

// ShiftY moves the body vertically.
func (b *Body) ShiftY(dy float64) {
	b.Box.Origin.Y += dy
}
