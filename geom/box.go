package geom

import "fmt"

// Box is an axis-aligned rectangle anchored at its top-left origin.
// Y grows downward, matching screen coordinates.
type Box struct {
	Origin Vec2
	W, H   float64
}

// NewBox creates a box. Negative extents are clamped to zero.
func NewBox(x, y, w, h float64) Box {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Box{Origin: Vec2{X: x, Y: y}, W: w, H: h}
}

// Bounds returns the box itself, so plain boxes satisfy Shape.
func (b Box) Bounds() Box { return b }

// Left returns the minimum X edge.
func (b Box) Left() float64 { return b.Origin.X }

// Right returns the maximum X edge.
func (b Box) Right() float64 { return b.Origin.X + b.W }

// Top returns the minimum Y edge.
func (b Box) Top() float64 { return b.Origin.Y }

// Bottom returns the maximum Y edge.
func (b Box) Bottom() float64 { return b.Origin.Y + b.H }

// Center returns Origin + (W/2, H/2).
func (b Box) Center() Vec2 {
	return Vec2{X: b.Origin.X + b.W/2, Y: b.Origin.Y + b.H/2}
}

// Translate returns the box moved by d.
func (b Box) Translate(d Vec2) Box {
	b.Origin = b.Origin.Add(d)
	return b
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Overlaps reports whether the half-open extents of b and o intersect on both axes.
// Boxes that only share an edge do not overlap, and an empty box overlaps nothing.
func (b Box) Overlaps(o Box) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.Origin.X < o.Origin.X+o.W &&
		o.Origin.X < b.Origin.X+b.W &&
		b.Origin.Y < o.Origin.Y+o.H &&
		o.Origin.Y < b.Origin.Y+b.H
}

func (b Box) String() string {
	return fmt.Sprintf("(%s, %.2f, %.2f)", b.Origin, b.W, b.H)
}
