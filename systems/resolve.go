package systems

import (
	"math"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/geom"
)

// resolveVertical moves the actor by its vertical velocity over h seconds.
// It returns true when the frame must stop (death, finish, relocation).
func (c *Controller) resolveVertical(h float64, surfaces []*components.Body, out *Outcome) bool {
	dy := c.vel.Y * h
	contacts := c.contactsAt(geom.V(0, dy), surfaces)
	if len(contacts) == 0 {
		c.commitY(c.body.Origin().Y+dy, surfaces, out)
		return false
	}
	if c.trigger(contacts, surfaces, out) {
		return true
	}

	solid := c.solidOf(contacts, surfaces)
	if len(solid) == 0 {
		c.commitY(c.body.Origin().Y+dy, surfaces, out)
		return false
	}

	falling := dy >= 0
	before := c.body.Origin().Y
	y, support := c.snapY(dy, solid, surfaces, falling)
	if c.blocked(c.body, geom.V(0, y-before), surfaces, true) && !c.blocked(c.body, geom.Vec2{}, surfaces, true) {
		y = before
	}
	c.commitY(y, surfaces, out)

	if falling {
		c.grounded = true
		c.groundFriction = surfaces[support].Friction
	}
	c.vel.Y = 0
	return false
}

// applyGround runs once per grounded frame, after every sub-step: friction
// of the supporting surface over the whole frame, then the stop snap, which
// also clears the slide-jump gate and stands a slide back up.
func (c *Controller) applyGround(dt float64, surfaces []*components.Body, out *Outcome) {
	c.applyFriction(c.groundFriction, dt)
	if math.Abs(c.vel.X) >= c.tuning.StopEpsilon {
		return
	}
	c.vel.X = 0
	c.jumpedWhileSliding = false
	if c.sliding {
		c.standPending = true
		c.tryStand(surfaces, out)
	}
}

// resolveHorizontal moves the actor by its horizontal velocity over h seconds.
// It returns true when the frame must stop.
func (c *Controller) resolveHorizontal(h float64, surfaces []*components.Body, out *Outcome) bool {
	dx := c.vel.X * h
	if dx == 0 {
		return false
	}
	contacts := c.contactsAt(geom.V(dx, 0), surfaces)
	if len(contacts) == 0 {
		c.body.Translate(geom.V(dx, 0))
		return false
	}
	if c.trigger(contacts, surfaces, out) {
		return true
	}

	solid := c.solidOf(contacts, surfaces)
	if len(solid) == 0 {
		c.body.Translate(geom.V(dx, 0))
		return false
	}

	before := c.body.Origin().X
	x := c.snapX(dx, solid, surfaces)
	if c.blocked(c.body, geom.V(x-before, 0), surfaces, true) {
		x = before
	}
	c.body.SetOrigin(geom.V(x, c.body.Origin().Y))

	if c.sliding && !c.grounded {
		c.vel.X *= c.tuning.WallBounce
	} else {
		c.vel.X = 0
	}
	return false
}

// commitY places the actor at y. With scroll follow the actor keeps its
// height and every surface moves by the opposite displacement instead.
func (c *Controller) commitY(y float64, surfaces []*components.Body, out *Outcome) {
	o := c.body.Origin()
	if !c.tuning.ScrollFollow {
		c.body.SetOrigin(geom.V(o.X, y))
		return
	}
	if d := y - o.Y; d != 0 {
		shiftWorld(surfaces, -d)
		out.WorldShift -= d
	}
}

// applyFriction scales vx by a surface's friction over dt seconds. A negative
// friction large enough to reverse the motion stops it instead.
func (c *Controller) applyFriction(friction, dt float64) {
	scale := 1 + friction*c.tuning.FrictionGain*dt
	if scale < 0 {
		scale = 0
	}
	c.vel.X *= scale
}

// snapY finds the position along the vertical move where the actor just
// touches the contacted solids. It also returns the surface that stopped it.
func (c *Controller) snapY(dy float64, solid []int, surfaces []*components.Body, falling bool) (float64, int) {
	o := c.body.Origin()
	target := geom.V(o.X, o.Y+dy)
	y := target.Y
	support := solid[0]
	for _, p := range c.body.Parts() {
		pb := p.At(target)
		for _, i := range solid {
			s := surfaces[i].Box
			if !pb.Overlaps(s) {
				continue
			}
			if falling {
				if limit := fitAbove(s.Top(), p.Offset.Y+p.H); limit < y {
					y = limit
					support = i
				}
			} else {
				if limit := fitBelow(s.Bottom(), p.Offset.Y); limit > y {
					y = limit
					support = i
				}
			}
		}
	}
	return y, support
}

// snapX is snapY for the horizontal axis.
func (c *Controller) snapX(dx float64, solid []int, surfaces []*components.Body) float64 {
	o := c.body.Origin()
	target := geom.V(o.X+dx, o.Y)
	x := target.X
	for _, p := range c.body.Parts() {
		pb := p.At(target)
		for _, i := range solid {
			s := surfaces[i].Box
			if !pb.Overlaps(s) {
				continue
			}
			if dx > 0 {
				if limit := fitAbove(s.Left(), p.Offset.X+p.W); limit < x {
					x = limit
				}
			} else {
				if limit := fitBelow(s.Right(), p.Offset.X); limit > x {
					x = limit
				}
			}
		}
	}
	return x
}

// fitAbove returns the largest origin coordinate whose far edge
// (origin + extent) does not pass edge.
func fitAbove(edge, extent float64) float64 {
	o := edge - extent
	for o+extent > edge {
		o = math.Nextafter(o, math.Inf(-1))
	}
	return o
}

// fitBelow returns the smallest origin coordinate whose near edge
// (origin + offset) is not before edge.
func fitBelow(edge, offset float64) float64 {
	o := edge - offset
	for o+offset < edge {
		o = math.Nextafter(o, math.Inf(1))
	}
	return o
}

// trigger handles lethal, finish and teleport contacts. Lethal wins over
// finish when both are touched in the same move.
func (c *Controller) trigger(contacts []int, surfaces []*components.Body, out *Outcome) bool {
	for _, i := range contacts {
		if surfaces[i].Kind == components.KindLethal {
			c.alive = false
			out.Events |= EventDeath
			return true
		}
	}
	for _, i := range contacts {
		if surfaces[i].Kind == components.KindFinish {
			c.finished = true
			out.Events |= EventFinish
			return true
		}
	}
	for _, i := range contacts {
		if surfaces[i].Kind == components.KindTeleport && c.touch(surfaces[i].Teleport, surfaces, out) {
			return true
		}
	}
	return false
}

// touch handles contact with a teleporter. Only the first frame of a
// continuous contact counts.
func (c *Controller) touch(id int, surfaces []*components.Body, out *Outcome) bool {
	if containsID(c.touching, id) {
		return false
	}
	c.touching = append(c.touching, id)
	if containsID(c.previous, id) || c.network == nil {
		return false
	}

	result, target := c.network.Resolve(id)
	switch result {
	case TeleportActivate:
		c.network = c.network.Activate(id)
		out.Events |= EventActivate
		out.From = id
	case TeleportRelocate:
		return c.relocate(id, target, surfaces, out)
	}
	return false
}

// relocate moves the level so the target teleporter sits where the source
// was, then centers the actor on the target horizontally.
func (c *Controller) relocate(from, to int, surfaces []*components.Body, out *Outcome) bool {
	src := findTeleporter(surfaces, from)
	dst := findTeleporter(surfaces, to)
	if src == nil || dst == nil {
		return false
	}

	offset := src.Box.Origin.Y - dst.Box.Origin.Y
	shiftWorld(surfaces, offset)
	out.WorldShift += offset

	o := c.body.Origin()
	c.body.SetOrigin(geom.V(dst.Box.Center().X-c.body.Base().W/2, o.Y))
	c.vel = geom.Vec2{}
	c.settle(surfaces)

	if !containsID(c.touching, to) {
		c.touching = append(c.touching, to)
	}
	out.Events |= EventTeleport
	out.From = from
	out.To = to
	return true
}

// settle lifts the actor out of any solid it overlaps after a relocation.
func (c *Controller) settle(surfaces []*components.Body) {
	contacts := c.contactsAt(geom.Vec2{}, surfaces)
	solid := c.solidOf(contacts, surfaces)
	if len(solid) == 0 {
		return
	}
	y, _ := c.snapY(0, solid, surfaces, true)
	o := c.body.Origin()
	if !c.blocked(c.body, geom.V(0, y-o.Y), surfaces, true) {
		c.body.SetOrigin(geom.V(o.X, y))
	}
}

// contactsAt returns the indices of the surfaces the body would overlap
// after moving by delta. The actor's own proxy is never a contact.
func (c *Controller) contactsAt(delta geom.Vec2, surfaces []*components.Body) []int {
	c.contacts = geom.Contacts(c.body, delta, surfaces, c.contacts[:0])
	n := 0
	for _, i := range c.contacts {
		if surfaces[i].Kind != components.KindControllable {
			c.contacts[n] = i
			n++
		}
	}
	c.contacts = c.contacts[:n]
	return c.contacts
}

func (c *Controller) solidOf(contacts []int, surfaces []*components.Body) []int {
	c.solid = c.solid[:0]
	for _, i := range contacts {
		if surfaces[i].Solid() {
			c.solid = append(c.solid, i)
		}
	}
	return c.solid
}

// blocked reports whether shape, moved by delta, overlaps any surface
// (or any solid surface when solidOnly is set).
func (c *Controller) blocked(shape *geom.Composite, delta geom.Vec2, surfaces []*components.Body, solidOnly bool) bool {
	for _, s := range surfaces {
		if s == nil || s.Kind == components.KindControllable {
			continue
		}
		if solidOnly && !s.Solid() {
			continue
		}
		if geom.WouldCollide(shape, delta, []geom.Box{s.Box}) {
			return true
		}
	}
	return false
}

func shiftWorld(surfaces []*components.Body, dy float64) {
	for _, s := range surfaces {
		if s != nil {
			s.ShiftY(dy)
		}
	}
}

func findTeleporter(surfaces []*components.Body, id int) *components.Body {
	for _, s := range surfaces {
		if s != nil && s.Kind == components.KindTeleport && s.Teleport == id {
			return s
		}
	}
	return nil
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
