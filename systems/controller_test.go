package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/geom"
	"github.com/pthm-cable/subterra/input"
)

const frame = 1.0 / 60

func box(x, y, w, h float64, kind components.Kind) *components.Body {
	return &components.Body{Box: geom.NewBox(x, y, w, h), Kind: kind}
}

func floor() *components.Body {
	return box(0, 800, 1920, 580, components.KindPlain)
}

func newActor(x, y float64, network *TeleportNetwork) *Controller {
	return NewController(DefaultTuning(), geom.NewComposite(geom.NewBox(x, y, 25, 40)), network)
}

func solidBoxes(surfaces []*components.Body) []geom.Box {
	var out []geom.Box
	for _, s := range surfaces {
		if s.Solid() {
			out = append(out, s.Box)
		}
	}
	return out
}

func TestSettlesOntoOverlappedFloor(t *testing.T) {
	c := newActor(100, 790, nil)
	surfaces := []*components.Body{floor()}

	c.Update(0.017, input.Snapshot{}, surfaces)

	if got := c.Position().Y; got != 760 {
		t.Errorf("y = %v, want 760", got)
	}
	if got := c.Body().Base().Bottom(); got != 800 {
		t.Errorf("bottom = %v, want 800", got)
	}
	if !c.Grounded() {
		t.Error("expected grounded")
	}
	if c.Velocity().Y != 0 {
		t.Errorf("vy = %v, want 0", c.Velocity().Y)
	}
}

func TestLandingZeroesVerticalVelocity(t *testing.T) {
	c := newActor(100, 755, nil)
	c.SetVelocity(geom.V(0, 500))
	surfaces := []*components.Body{floor()}

	out := c.Update(frame, input.Snapshot{}, surfaces)

	if c.Velocity().Y != 0 {
		t.Errorf("vy = %v, want 0", c.Velocity().Y)
	}
	if !c.Grounded() {
		t.Error("expected grounded")
	}
	if !out.Events.Has(EventLand) {
		t.Errorf("events = %b, want EventLand", out.Events)
	}
	if got := c.Position().Y; got != 760 {
		t.Errorf("y = %v, want 760", got)
	}
}

func TestFreeFallWithoutSurfaces(t *testing.T) {
	for _, surfaces := range [][]*components.Body{nil, {}, {nil}} {
		c := newActor(0, 0, nil)
		c.Update(0.1, input.Snapshot{}, surfaces)

		wantV := DefaultTuning().Gravity * 0.1
		if got := c.Velocity().Y; math.Abs(got-wantV) > 1e-9 {
			t.Errorf("vy = %v, want %v", got, wantV)
		}
		if got := c.Position().Y; math.Abs(got-wantV*0.1) > 1e-9 {
			t.Errorf("y = %v, want %v", got, wantV*0.1)
		}
		if c.Grounded() {
			t.Error("free-falling actor reported grounded")
		}
	}
}

func TestLargeFrameDoesNotTunnel(t *testing.T) {
	c := newActor(100, 0, nil)
	surfaces := []*components.Body{box(0, 300, 400, 20, components.KindPlain)}

	out := c.Update(0.5, input.Snapshot{}, surfaces)

	if out.Substeps < 2 {
		t.Errorf("substeps = %d, want several", out.Substeps)
	}
	if !c.Grounded() || c.Position().Y != 260 {
		t.Errorf("y = %v grounded = %v, want 260 and grounded", c.Position().Y, c.Grounded())
	}
}

func TestInvalidFrameIsIgnored(t *testing.T) {
	for _, dt := range []float64{0, -1, math.NaN()} {
		c := newActor(5, 5, nil)
		out := c.Update(dt, input.Hold(input.MoveRight, input.Jump), nil)
		if out.Events != 0 || c.Position() != geom.V(5, 5) || !c.Velocity().IsZero() {
			t.Errorf("dt=%v changed state: %+v", dt, c.State())
		}
	}
}

func TestJumpAndDoubleJump(t *testing.T) {
	tun := DefaultTuning()
	c := newActor(100, 760, nil)
	surfaces := []*components.Body{floor()}
	c.Update(frame, input.Snapshot{}, surfaces)
	if !c.Grounded() {
		t.Fatal("expected grounded before jumping")
	}

	steps := []struct {
		name  string
		in    input.Snapshot
		event Event
		vy    float64
	}{
		{"ground jump", input.Hold(input.Jump), EventJump, -tun.JumpImpulse},
		{"held jump does not retrigger", input.Hold(input.Jump), 0, -tun.JumpImpulse + tun.Gravity*frame},
		{"release rearms", input.Snapshot{}, 0, -tun.JumpImpulse + 2*tun.Gravity*frame},
		{"double jump", input.Hold(input.Jump), EventDoubleJump, -tun.DoubleJumpImpulse},
		{"release", input.Snapshot{}, 0, -tun.DoubleJumpImpulse + tun.Gravity*frame},
		{"second double jump is spent", input.Hold(input.Jump), 0, -tun.DoubleJumpImpulse + 2*tun.Gravity*frame},
	}
	for _, s := range steps {
		out := c.Update(frame, s.in, surfaces)
		if s.event != 0 && !out.Events.Has(s.event) {
			t.Errorf("%s: events = %b, want %b", s.name, out.Events, s.event)
		}
		if out.Events.Has(EventJump) && s.event != EventJump || out.Events.Has(EventDoubleJump) && s.event != EventDoubleJump {
			t.Errorf("%s: unexpected jump events %b", s.name, out.Events)
		}
		if got := c.Velocity().Y; math.Abs(got-s.vy) > 1e-9 {
			t.Errorf("%s: vy = %v, want %v", s.name, got, s.vy)
		}
	}
	if c.CanDoubleJump() {
		t.Error("double jump should stay spent until landing")
	}
}

func TestSlideJumpGate(t *testing.T) {
	ground := floor()
	surfaces := []*components.Body{ground}
	c := newActor(100, 760, nil)
	c.Update(frame, input.Snapshot{}, surfaces)

	steps := []struct {
		name          string
		in            input.Snapshot
		untilGrounded bool // repeat until the actor lands
		drag          bool // make the floor stop the actor dead
		want          Event
		wantGate      bool
	}{
		{name: "slide", in: input.Hold(input.Slide, input.MoveRight), want: EventSlideStart},
		{name: "jump while sliding", in: input.Hold(input.Slide, input.Jump), want: EventJump, wantGate: true},
		{name: "release jump", in: input.Hold(input.Slide), wantGate: true},
		{name: "double jump blocked", in: input.Hold(input.Slide, input.Jump), wantGate: true},
		{name: "land still moving", in: input.Hold(input.Slide), untilGrounded: true, wantGate: true},
		{name: "release on ground", in: input.Hold(input.Slide), wantGate: true},
		{name: "ground jump blocked", in: input.Hold(input.Slide, input.Jump), wantGate: true},
		{name: "stop clears gate", in: input.Hold(input.Slide), drag: true, want: EventSlideEnd},
		{name: "jump again", in: input.Hold(input.Jump), want: EventJump},
	}
	for _, s := range steps {
		if s.drag {
			ground.Friction = -1000
		}
		var out Outcome
		for i := 0; i < 120; i++ {
			out = c.Update(frame, s.in, surfaces)
			if !s.untilGrounded || c.Grounded() {
				break
			}
		}
		jumps := out.Events & (EventJump | EventDoubleJump)
		if jumps != s.want&(EventJump|EventDoubleJump) {
			t.Errorf("%s: jump events = %b, want %b", s.name, jumps, s.want&(EventJump|EventDoubleJump))
		}
		if s.want != 0 && !out.Events.Has(s.want) {
			t.Errorf("%s: events = %b, want %b", s.name, out.Events, s.want)
		}
		if c.jumpedWhileSliding != s.wantGate {
			t.Errorf("%s: jumpedWhileSliding = %v, want %v", s.name, c.jumpedWhileSliding, s.wantGate)
		}
	}
}

func TestJumpGatingInAir(t *testing.T) {
	c := newActor(0, 0, nil)
	c.Update(frame, input.Hold(input.Jump), nil)
	if c.CanDoubleJump() {
		t.Fatal("first air press should spend the double jump")
	}
	c.Update(frame, input.Snapshot{}, nil)

	before := c.Velocity().Y
	out := c.Update(frame, input.Hold(input.Jump), nil)
	want := before + DefaultTuning().Gravity*frame
	if got := c.Velocity().Y; math.Abs(got-want) > 1e-9 {
		t.Errorf("vy = %v, want %v (gravity only)", got, want)
	}
	if out.Events&(EventJump|EventDoubleJump) != 0 {
		t.Errorf("unexpected jump events %b", out.Events)
	}
}

func TestDoubleJumpResetsOnLanding(t *testing.T) {
	c := newActor(100, 700, nil)
	surfaces := []*components.Body{floor()}
	c.Update(frame, input.Hold(input.Jump), surfaces)
	if c.CanDoubleJump() {
		t.Fatal("expected double jump spent")
	}
	for i := 0; i < 120 && !c.Grounded(); i++ {
		c.Update(frame, input.Snapshot{}, surfaces)
	}
	if !c.Grounded() || !c.CanDoubleJump() {
		t.Errorf("grounded=%v canDoubleJump=%v after landing", c.Grounded(), c.CanDoubleJump())
	}
}

func TestAirControl(t *testing.T) {
	tun := DefaultTuning()
	c := newActor(0, 0, nil)
	c.Update(frame, input.Hold(input.MoveRight), nil)
	if got, want := c.Velocity().X, tun.MoveSpeed*tun.AirControl; got != want {
		t.Errorf("airborne vx = %v, want %v", got, want)
	}

	g := newActor(100, 760, nil)
	surfaces := []*components.Body{floor()}
	g.Update(frame, input.Snapshot{}, surfaces)
	g.Update(frame, input.Hold(input.MoveLeft), surfaces)
	if got := g.Velocity().X; got != -tun.MoveSpeed {
		t.Errorf("grounded vx = %v, want %v", got, -tun.MoveSpeed)
	}
}

func TestWallStopsHorizontalMotion(t *testing.T) {
	c := newActor(100, 760, nil)
	surfaces := []*components.Body{floor(), box(130, 600, 20, 200, components.KindPlain)}
	for i := 0; i < 30; i++ {
		c.Update(frame, input.Hold(input.MoveRight), surfaces)
	}
	if got := c.Body().Base().Right(); got > 130 {
		t.Errorf("right edge = %v, penetrates wall at 130", got)
	}
	if got := c.Body().Base().Right(); got < 129.999 {
		t.Errorf("right edge = %v, want flush with wall", got)
	}
	if c.Velocity().X != 0 {
		t.Errorf("vx = %v, want 0 against the wall", c.Velocity().X)
	}
}

func TestSlideIntoWall(t *testing.T) {
	tests := []struct {
		name        string
		y           float64
		wantVX      float64
		wantSliding bool
	}{
		{"airborne slide bounces", 500, 600 * DefaultTuning().WallBounce, true},
		{"grounded slide stops", 760, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newActor(100, tc.y, nil)
			surfaces := []*components.Body{floor(), box(150, 300, 20, 500, components.KindPlain)}
			c.Update(frame, input.Snapshot{}, surfaces)
			c.Update(frame, input.Hold(input.Slide, input.MoveRight), surfaces)
			if !c.Sliding() || c.Body().Base().Right() >= 150 {
				t.Fatalf("expected a slide short of the wall, sliding=%v base=%v", c.Sliding(), c.Body().Base())
			}

			c.SetVelocity(geom.V(600, c.Velocity().Y))
			c.Update(frame, input.Hold(input.Slide), surfaces)

			if got := c.Velocity().X; math.Abs(got-tc.wantVX) > 1e-9 {
				t.Errorf("vx = %v, want %v", got, tc.wantVX)
			}
			if c.Sliding() != tc.wantSliding {
				t.Errorf("sliding = %v, want %v", c.Sliding(), tc.wantSliding)
			}
			if got := c.Body().Base().Right(); got > 150 {
				t.Errorf("right edge = %v, penetrates wall at 150", got)
			}
		})
	}
}

func TestFrictionScalesHorizontalSpeed(t *testing.T) {
	tests := []struct {
		name     string
		friction float64
		dt       float64
		substeps int
		want     float64
	}{
		{"neutral", 0, frame, 1, 300},
		{"drag", -6, frame, 1, 300 * (1 - 6*frame)},
		{"ice", 3, frame, 1, 300 * (1 + 3*frame)},
		{"never reverses", -1000, frame, 1, 0},
		{"drag over two sub-steps", -6, 0.05, 2, 300 * (1 - 6*0.05)},
		{"drag over four sub-steps", -6, 0.1, 4, 300 * (1 - 6*0.1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newActor(100, 760, nil)
			ground := floor()
			ground.Friction = tc.friction
			c.SetVelocity(geom.V(300, 0))
			out := c.Update(tc.dt, input.Snapshot{}, []*components.Body{ground})
			if out.Substeps != tc.substeps {
				t.Errorf("substeps = %d, want %d", out.Substeps, tc.substeps)
			}
			if got := c.Velocity().X; math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("vx = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSlowSpeedSnapsToZero(t *testing.T) {
	c := newActor(100, 760, nil)
	c.SetVelocity(geom.V(2, 0))
	c.Update(frame, input.Snapshot{}, []*components.Body{floor()})
	if c.Velocity().X != 0 {
		t.Errorf("vx = %v, want 0", c.Velocity().X)
	}
}

func TestSlideRejectedWhenBlocked(t *testing.T) {
	c := newActor(100, 760, nil)
	surfaces := []*components.Body{floor(), box(130, 700, 20, 100, components.KindPlain)}
	c.Update(frame, input.Snapshot{}, surfaces)

	out := c.Update(frame, input.Hold(input.Slide), surfaces)

	if !out.Events.Has(EventSlideRejected) {
		t.Errorf("events = %b, want EventSlideRejected", out.Events)
	}
	if c.Sliding() {
		t.Error("slide should have been rejected")
	}
	if b := c.Body().Base(); b.W != 25 || b.H != 40 {
		t.Errorf("shape = %v, want 25x40", b)
	}
}

func TestSlideSwapsShapeAndBoostsSpeed(t *testing.T) {
	tun := DefaultTuning()
	c := newActor(100, 760, nil)
	surfaces := []*components.Body{floor()}
	c.Update(frame, input.Snapshot{}, surfaces)

	out := c.Update(frame, input.Hold(input.Slide, input.MoveRight), surfaces)

	if !out.Events.Has(EventSlideStart) || !c.Sliding() {
		t.Fatalf("expected slide start, events = %b", out.Events)
	}
	b := c.Body().Base()
	if b.W != 40 || b.H != 25 || b.Bottom() != 800 {
		t.Errorf("slide shape = %v, want 40x25 resting on 800", b)
	}
	if got, want := c.Velocity().X, tun.MoveSpeed*tun.SlideBoost; got != want {
		t.Errorf("vx = %v, want %v", got, want)
	}

	out = c.Update(frame, input.Snapshot{}, surfaces)
	if !out.Events.Has(EventSlideEnd) || c.Sliding() {
		t.Errorf("releasing slide should stand, events = %b", out.Events)
	}
	if b := c.Body().Base(); b.W != 25 || b.H != 40 {
		t.Errorf("standing shape = %v", b)
	}
}

func TestStuckUnderCeilingThenCrawlOut(t *testing.T) {
	c := newActor(150, 760, nil)
	surfaces := []*components.Body{
		floor(),
		box(200, 760, 200, 10, components.KindPlain),
	}
	c.Update(frame, input.Snapshot{}, surfaces)
	for i := 0; i < 8; i++ {
		c.Update(frame, input.Hold(input.Slide, input.MoveRight), surfaces)
	}
	if !c.Sliding() {
		t.Fatal("expected to be sliding")
	}
	if x := c.Position().X; x < 200 {
		t.Fatalf("x = %v, expected to be under the ceiling", x)
	}

	out := c.Update(frame, input.Snapshot{}, surfaces)
	if !c.Stuck() || !c.Sliding() || !out.Events.Has(EventStuck) {
		t.Fatalf("stuck=%v sliding=%v events=%b", c.Stuck(), c.Sliding(), out.Events)
	}
	if b := c.Body().Base(); b.H != 25 {
		t.Errorf("stuck actor changed shape: %v", b)
	}

	for i := 0; i < 90 && c.Sliding(); i++ {
		c.Update(frame, input.Hold(input.MoveRight), surfaces)
	}
	if c.Sliding() || c.Stuck() {
		t.Errorf("expected to stand after crawling out, sliding=%v stuck=%v", c.Sliding(), c.Stuck())
	}
}

func TestLethalShortCircuits(t *testing.T) {
	c := newActor(100, 100, nil)
	surfaces := []*components.Body{box(90, 90, 50, 50, components.KindLethal)}

	out := c.Update(frame, input.Hold(input.MoveRight), surfaces)

	if c.Alive() || !out.Events.Has(EventDeath) {
		t.Fatalf("alive=%v events=%b", c.Alive(), out.Events)
	}
	if c.Position() != geom.V(100, 100) {
		t.Errorf("position moved to %v", c.Position())
	}

	before := c.State()
	c.Update(frame, input.Hold(input.Jump), surfaces)
	if c.State() != before {
		t.Error("dead actor should ignore updates")
	}
}

func TestLethalWinsOverFinish(t *testing.T) {
	c := newActor(100, 760, nil)
	surfaces := []*components.Body{
		box(0, 790, 110, 100, components.KindFinish),
		box(110, 790, 100, 100, components.KindLethal),
	}
	out := c.Update(frame, input.Snapshot{}, surfaces)
	if c.Alive() || c.Finished() {
		t.Errorf("alive=%v finished=%v, want dead and not finished", c.Alive(), c.Finished())
	}
	if out.Events.Has(EventFinish) {
		t.Error("finish should not fire alongside death")
	}
}

func TestFinish(t *testing.T) {
	c := newActor(100, 760, nil)
	surfaces := []*components.Body{floor(), box(126, 700, 20, 100, components.KindFinish)}
	c.Update(frame, input.Snapshot{}, surfaces)
	for i := 0; i < 10 && !c.Finished(); i++ {
		c.Update(frame, input.Hold(input.MoveRight), surfaces)
	}
	if !c.Finished() {
		t.Fatal("expected to finish")
	}
	if !c.Alive() {
		t.Error("finishing should not kill")
	}
}

func TestFlyIgnoresGravity(t *testing.T) {
	tun := DefaultTuning()
	c := newActor(0, 500, nil)
	out := c.Update(frame, input.Hold(input.ToggleFly), nil)
	if !c.Flying() || !out.Events.Has(EventFlyToggle) {
		t.Fatal("expected flying")
	}
	if c.Position().Y != 500 {
		t.Errorf("flying actor fell to %v", c.Position().Y)
	}

	c.Update(frame, input.Hold(input.ToggleFly, input.Jump), nil)
	if got := c.Velocity().Y; got != -tun.FlySpeed {
		t.Errorf("vy = %v, want %v", got, -tun.FlySpeed)
	}
	if !c.Flying() {
		t.Error("holding the toggle should not flip it again")
	}

	c.Update(frame, input.Snapshot{}, nil)
	c.Update(frame, input.Hold(input.ToggleFly), nil)
	if c.Flying() {
		t.Error("second press should stop flying")
	}
}

func TestScrollFollowMovesWorld(t *testing.T) {
	tun := DefaultTuning()
	tun.ScrollFollow = true
	c := NewController(tun, geom.NewComposite(geom.NewBox(100, 100, 25, 40)), nil)
	ground := box(0, 800, 1920, 100, components.KindPlain)

	out := c.Update(0.1, input.Snapshot{}, []*components.Body{ground})

	if c.Position().Y != 100 {
		t.Errorf("actor y = %v, want fixed at 100", c.Position().Y)
	}
	if math.Abs(out.WorldShift+18) > 1e-9 {
		t.Errorf("world shift = %v, want -18", out.WorldShift)
	}
	if math.Abs(ground.Box.Origin.Y-782) > 1e-9 {
		t.Errorf("ground y = %v, want 782", ground.Box.Origin.Y)
	}
}

func TestRespawnResetsFlags(t *testing.T) {
	c := newActor(100, 100, nil)
	c.Update(frame, input.Hold(input.Jump), []*components.Body{box(0, 0, 10, 10, components.KindLethal), box(90, 90, 50, 50, components.KindLethal)})
	if c.Alive() {
		t.Fatal("expected dead")
	}
	c.Respawn(geom.V(10, 20))
	s := c.State()
	want := State{Position: geom.V(10, 20), Alive: true, CanDoubleJump: true}
	if s != want {
		t.Errorf("state = %+v, want %+v", s, want)
	}
}

// TestNoPenetration drives the actor with pseudo-random input through a small
// room and checks that no part ever ends a frame inside a solid surface.
func TestNoPenetration(t *testing.T) {
	surfaces := []*components.Body{
		floor(),
		box(0, 0, 20, 800, components.KindPlain),
		box(900, 0, 20, 800, components.KindPlain),
		box(300, 740, 120, 30, components.KindPlain),
		box(500, 770, 200, 8, components.KindPlain),
		box(0, 0, 920, 20, components.KindPlain),
	}
	for _, s := range surfaces[3:5] {
		s.Friction = -4
	}
	solids := solidBoxes(surfaces)
	actions := []input.Action{input.MoveLeft, input.MoveRight, input.Jump, input.Slide, input.ToggleFly}
	rng := rand.New(rand.NewPCG(1, 2))

	c := newActor(100, 700, nil)
	var held input.Snapshot
	for i := 0; i < 5000; i++ {
		if i%7 == 0 {
			held = input.Snapshot{}
			for _, a := range actions {
				if rng.Float64() < 0.35 {
					held = held.With(a)
				}
			}
		}
		dt := frame
		if i%97 == 0 {
			dt = 0.25
		}
		c.Update(dt, held, surfaces)
		if geom.OverlapsAny(c.Body(), solids) {
			t.Fatalf("frame %d: actor %v overlaps a solid (state %+v)", i, c.Body().Boxes(), c.State())
		}
	}
}
