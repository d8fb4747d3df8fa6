package geom

// Shape is anything that occupies an axis-aligned box in the world.
type Shape interface {
	Bounds() Box
}

// Part is one collision rectangle of a Composite, placed at a fixed offset
// from the owner's origin.
type Part struct {
	Offset Vec2
	W, H   float64
}

// At returns the part's absolute box for the given owner origin.
func (p Part) At(origin Vec2) Box {
	return Box{Origin: origin.Add(p.Offset), W: p.W, H: p.H}
}

// Composite is an owning base box plus an ordered list of parts that move
// rigidly with it. The base is the visual extent; the parts are what collides.
type Composite struct {
	base  Box
	parts []Part
	abs   []Box
}

// NewComposite creates a composite body. With no parts, a single part
// covering the whole base is used.
func NewComposite(base Box, parts ...Part) *Composite {
	if len(parts) == 0 {
		parts = []Part{{W: base.W, H: base.H}}
	}
	c := &Composite{
		base:  base,
		parts: append([]Part(nil), parts...),
		abs:   make([]Box, len(parts)),
	}
	c.Refresh()
	return c
}

// Base returns the owning box.
func (c *Composite) Base() Box { return c.base }

// Origin returns the owner origin.
func (c *Composite) Origin() Vec2 { return c.base.Origin }

// Parts returns the part offsets and extents. The slice must not be modified.
func (c *Composite) Parts() []Part { return c.parts }

// Boxes returns the absolute part boxes as of the last Refresh.
func (c *Composite) Boxes() []Box { return c.abs }

// Refresh recomputes every part's absolute box from the owner origin.
func (c *Composite) Refresh() {
	for i, p := range c.parts {
		c.abs[i] = p.At(c.base.Origin)
	}
}

// SetOrigin moves the owner and refreshes the parts.
func (c *Composite) SetOrigin(o Vec2) {
	c.base.Origin = o
	c.Refresh()
}

// Translate moves the owner by d and refreshes the parts.
func (c *Composite) Translate(d Vec2) {
	c.SetOrigin(c.base.Origin.Add(d))
}

// Clone returns an independent copy.
func (c *Composite) Clone() *Composite {
	return NewComposite(c.base, c.parts...)
}

// Swapped returns the composite with width and height exchanged: the base
// box, every part extent and every part offset swap axes. The origin is
// corrected so the bottom edge stays where it was, making the shape
// compress downward. Swapping twice restores the original.
func (c *Composite) Swapped() *Composite {
	base := c.base
	base.W, base.H = c.base.H, c.base.W
	base.Origin.Y += c.base.H - base.H

	parts := make([]Part, len(c.parts))
	for i, p := range c.parts {
		parts[i] = Part{
			Offset: Vec2{X: p.Offset.Y, Y: p.Offset.X},
			W:      p.H,
			H:      p.W,
		}
	}
	return NewComposite(base, parts...)
}

// Overlaps reports whether any part overlaps b.
func (c *Composite) Overlaps(b Box) bool {
	return c.overlapsAt(Vec2{}, b)
}

func (c *Composite) overlapsAt(delta Vec2, b Box) bool {
	o := c.base.Origin.Add(delta)
	for _, p := range c.parts {
		if p.At(o).Overlaps(b) {
			return true
		}
	}
	return false
}

// OverlapsAny reports whether any part of c overlaps any of the shapes.
func OverlapsAny[S Shape](c *Composite, shapes []S) bool {
	return WouldCollide(c, Vec2{}, shapes)
}

// WouldCollide reports whether c, displaced by delta, would overlap any of
// the shapes. It reads geometry only and never mutates c.
func WouldCollide[S Shape](c *Composite, delta Vec2, shapes []S) bool {
	for _, s := range shapes {
		if c.overlapsAt(delta, s.Bounds()) {
			return true
		}
	}
	return false
}

// Contacts appends to dst the indices of the shapes that c, displaced by
// delta, would overlap, and returns the extended slice.
func Contacts[S Shape](c *Composite, delta Vec2, shapes []S, dst []int) []int {
	for i, s := range shapes {
		if c.overlapsAt(delta, s.Bounds()) {
			dst = append(dst, i)
		}
	}
	return dst
}
