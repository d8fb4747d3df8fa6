package systems

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/geom"
	"github.com/pthm-cable/subterra/input"
)

func teleporter(id int, x, y, w float64) *components.Body {
	return &components.Body{Box: geom.NewBox(x, y, w, 20), Kind: components.KindTeleport, Teleport: id}
}

func TestNewTeleportNetworkErrors(t *testing.T) {
	tests := []struct {
		name  string
		links []TeleportLink
		want  error
	}{
		{"dangling", []TeleportLink{{ID: 1, Link: 7}}, ErrDanglingLink},
		{"duplicate", []TeleportLink{{ID: 1, Link: 1}, {ID: 1, Link: 1}}, ErrDuplicateTeleport},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTeleportNetwork(tc.links)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNilNetworkIsEmpty(t *testing.T) {
	var n *TeleportNetwork
	if n.Len() != 0 || n.IDs() != nil {
		t.Error("nil network should be empty")
	}
	if r, _ := n.Resolve(3); r != TeleportIgnore {
		t.Errorf("Resolve on nil network = %v", r)
	}
	if _, ok := n.Newest(); ok {
		t.Error("nil network has no chain")
	}
}

func TestActivationChain(t *testing.T) {
	n, err := NewTeleportNetwork([]TeleportLink{{1, 1}, {2, 2}, {3, 3}, {4, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if got := n.IDs(); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Fatalf("IDs = %v", got)
	}

	if r, _ := n.Resolve(1); r != TeleportActivate {
		t.Fatalf("first touch = %v, want activate", r)
	}
	a := n.Activate(1)
	if node, _ := n.Node(1); node.Active {
		t.Error("Activate mutated the previous network")
	}
	if newest, ok := a.Newest(); !ok || newest != 1 {
		t.Errorf("newest = %d,%v", newest, ok)
	}
	for _, id := range []int{2, 3} {
		if node, _ := a.Node(id); node.Target != 1 || node.Active {
			t.Errorf("node %d = %+v, want inactive targeting 1", id, node)
		}
	}
	if node, _ := a.Node(4); node.Target != 1 {
		t.Errorf("linked node retargeted: %+v", node)
	}
	if r, _ := a.Resolve(1); r != TeleportIgnore {
		t.Errorf("touching the chain head = %v, want ignore", r)
	}

	b := a.Activate(2)
	if node, _ := b.Node(3); node.Target != 2 {
		t.Errorf("node 3 target = %d, want 2", node.Target)
	}
	if node, _ := b.Node(1); node.Target != 1 {
		t.Errorf("active node 1 retargeted to %d", node.Target)
	}
	if r, to := b.Resolve(2); r != TeleportRelocate || to != 1 {
		t.Errorf("Resolve(2) = %v,%d, want relocate to 1", r, to)
	}
	if b.Activate(2) != b {
		t.Error("activating an active node should return the same network")
	}
}

func TestTeleportRelocation(t *testing.T) {
	n, err := NewTeleportNetwork([]TeleportLink{{1, 2}, {2, 2}})
	if err != nil {
		t.Fatal(err)
	}
	n = n.Activate(1)

	src := teleporter(1, 0, 800, 100)
	dst := teleporter(2, 500, 300, 60)
	ground := &components.Body{Box: geom.NewBox(0, 1000, 1000, 50)}
	surfaces := []*components.Body{src, dst, ground}

	c := newActor(10, 760, n)
	c.SetVelocity(geom.V(120, 0))
	out := c.Update(frame, input.Snapshot{}, surfaces)

	if !out.Events.Has(EventTeleport) || out.From != 1 || out.To != 2 {
		t.Fatalf("outcome = %+v", out)
	}
	if got, want := c.Body().Base().Center().X, dst.Box.Center().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("center x = %v, want %v", got, want)
	}
	if !c.Velocity().IsZero() {
		t.Errorf("velocity = %v, want zero", c.Velocity())
	}
	if out.WorldShift != 500 {
		t.Errorf("world shift = %v, want 500", out.WorldShift)
	}
	if dst.Box.Origin.Y != 800 || src.Box.Origin.Y != 1300 || ground.Box.Origin.Y != 1500 {
		t.Errorf("surfaces not shifted: src %v dst %v ground %v", src.Box, dst.Box, ground.Box)
	}
	if c.Position().Y != 760 {
		t.Errorf("y = %v, want 760", c.Position().Y)
	}

	out = c.Update(frame, input.Snapshot{}, surfaces)
	if out.Events.Has(EventTeleport) {
		t.Error("arrival pad should not send the actor back")
	}
	if !c.Grounded() {
		t.Error("expected to stand on the arrival pad")
	}
}

func TestTeleportActivationIsEdgeTriggered(t *testing.T) {
	n, err := NewTeleportNetwork([]TeleportLink{{1, 1}, {2, 2}})
	if err != nil {
		t.Fatal(err)
	}
	pad := teleporter(1, 0, 800, 200)
	surfaces := []*components.Body{pad, teleporter(2, 600, 800, 100)}

	c := newActor(10, 760, n)
	out := c.Update(frame, input.Snapshot{}, surfaces)
	if !out.Events.Has(EventActivate) || out.From != 1 {
		t.Fatalf("outcome = %+v, want activation of 1", out)
	}
	if !c.Grounded() {
		t.Error("teleporters are solid")
	}
	for i := 0; i < 5; i++ {
		if out := c.Update(frame, input.Snapshot{}, surfaces); out.Events&(EventActivate|EventTeleport) != 0 {
			t.Fatalf("frame %d: repeated teleport event %b", i, out.Events)
		}
	}
	if node, _ := c.Network().Node(2); node.Target != 1 {
		t.Errorf("node 2 target = %d, want 1", node.Target)
	}
}
