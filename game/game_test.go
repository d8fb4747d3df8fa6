package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/config"
	"github.com/pthm-cable/subterra/input"
	"github.com/pthm-cable/subterra/level"
	"github.com/pthm-cable/subterra/systems"
	"github.com/pthm-cable/subterra/telemetry"
)

const frame = 1.0 / 60

// Lethal wall on the left, finish on the right.
const corridor = `
name: corridor
spawn: {x: 40, y: 60}
surfaces:
  - {x: 0, y: 100, w: 400, h: 40}
  - {x: -20, y: 0, w: 20, h: 140, kind: lethal}
  - {x: 300, y: 40, w: 40, h: 60, kind: finish}
`

// The actor falls onto pad 1, which is linked to pad 2 high above.
const lift = `
name: lift
spawn: {x: 100, y: 40}
surfaces:
  - {x: 0, y: 100, w: 400, h: 40}
  - {x: 90, y: 90, w: 60, h: 10, kind: teleport, id: 1, link: 2}
  - {x: 250, y: -300, w: 60, h: 10, kind: teleport, id: 2}
`

func newGame(t *testing.T, src string, opts Options) *Game {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	lvl, err := level.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	opts.Config = cfg
	opts.Level = lvl
	g, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// stepUntil steps with in held until an outcome has ev, for at most n frames.
func stepUntil(g *Game, in input.Snapshot, ev systems.Event, n int) (systems.Outcome, bool) {
	for i := 0; i < n; i++ {
		out := g.Step(frame, in)
		g.EndFrame()
		if out.Events.Has(ev) {
			return out, true
		}
	}
	return systems.Outcome{}, false
}

func step(g *Game, in input.Snapshot, n int) {
	for i := 0; i < n; i++ {
		g.Step(frame, in)
		g.EndFrame()
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected an error without config")
	}
}

func TestNewBuildsWorld(t *testing.T) {
	g := newGame(t, corridor, Options{})
	if got := len(g.Surfaces()); got != 3 {
		t.Errorf("surfaces = %d, want 3", got)
	}
	var bodies, actors int
	g.EachBody(func(b *components.Body) {
		bodies++
		if b.Kind == components.KindControllable {
			actors++
		}
	})
	if bodies != 4 || actors != 1 {
		t.Errorf("bodies = %d, actors = %d; want 4 and 1", bodies, actors)
	}
	if g.Attempt() != 1 {
		t.Errorf("attempt = %d, want 1", g.Attempt())
	}
}

func TestWalkToFinish(t *testing.T) {
	g := newGame(t, corridor, Options{})
	if _, ok := stepUntil(g, input.Hold(input.MoveRight), systems.EventFinish, 180); !ok {
		t.Fatalf("never finished; actor at %v", g.Controller().Position())
	}
	runs := g.Runs()
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Outcome != telemetry.OutcomeFinish || runs[0].Level != "corridor" || runs[0].Ticks == 0 {
		t.Errorf("run = %+v", runs[0])
	}

	// A finished actor waits for a restart.
	pos := g.Controller().Position()
	step(g, input.Hold(input.MoveRight), 10)
	if g.Controller().Position() != pos {
		t.Error("finished actor moved")
	}
	if g.Attempt() != 2 {
		t.Errorf("attempt = %d, want 2", g.Attempt())
	}
}

func TestDeathAndRestart(t *testing.T) {
	g := newGame(t, corridor, Options{})
	if _, ok := stepUntil(g, input.Hold(input.MoveLeft), systems.EventDeath, 60); !ok {
		t.Fatal("never died")
	}
	if g.Controller().Alive() {
		t.Error("controller still alive")
	}

	g.Step(frame, input.Hold(input.Restart))
	g.EndFrame()
	if !g.Controller().Alive() {
		t.Error("restart did not respawn")
	}
	if p := g.Controller().Position(); p.X != 40 {
		t.Errorf("respawned at %v, want x=40", p)
	}
	runs := g.Runs()
	if len(runs) != 1 || runs[0].Outcome != telemetry.OutcomeDeath {
		t.Errorf("runs = %+v, want a single death", runs)
	}
}

func TestAutoRestart(t *testing.T) {
	g := newGame(t, corridor, Options{AutoRestart: true})
	if _, ok := stepUntil(g, input.Hold(input.MoveLeft), systems.EventDeath, 60); !ok {
		t.Fatal("never died")
	}
	g.Step(frame, input.Snapshot{})
	g.EndFrame()
	if !g.Controller().Alive() {
		t.Error("expected automatic respawn")
	}
}

func TestRestartRecordsRunningAttempt(t *testing.T) {
	g := newGame(t, corridor, Options{})
	step(g, input.Hold(input.MoveRight), 5)
	step(g, input.Hold(input.Restart), 3)
	step(g, input.Snapshot{}, 1)

	runs := g.Runs()
	if len(runs) != 1 || runs[0].Outcome != telemetry.OutcomeRestart || runs[0].Ticks != 5 {
		t.Errorf("runs = %+v, want one restart after 5 ticks", runs)
	}
}

func TestPause(t *testing.T) {
	g := newGame(t, corridor, Options{})
	step(g, input.Hold(input.Pause), 3)
	if !g.Paused() {
		t.Fatal("expected paused")
	}
	pos := g.Controller().Position()
	tick := g.Tick()
	step(g, input.Hold(input.MoveRight), 10)
	if g.Controller().Position() != pos || g.Tick() != tick {
		t.Error("paused game advanced")
	}

	step(g, input.Hold(input.Pause, input.MoveRight), 1)
	if g.Paused() {
		t.Fatal("second press should resume")
	}
	if g.Controller().Position().X <= pos.X {
		t.Error("resumed game did not move")
	}
}

func TestQuit(t *testing.T) {
	g := newGame(t, corridor, Options{})
	if g.QuitRequested() {
		t.Fatal("quit before any input")
	}
	step(g, input.Hold(input.Quit), 1)
	if !g.QuitRequested() {
		t.Error("quit not requested")
	}
}

func TestTeleportShiftsWorldAndRestartRestoresIt(t *testing.T) {
	g := newGame(t, lift, Options{})
	ground := g.Surfaces()[0]
	groundY := ground.Box.Origin.Y

	if _, ok := stepUntil(g, input.Snapshot{}, systems.EventActivate, 30); !ok {
		t.Fatal("pad 1 never activated")
	}
	step(g, input.Hold(input.Jump), 1)
	out, ok := stepUntil(g, input.Snapshot{}, systems.EventTeleport, 120)
	if !ok {
		t.Fatalf("never teleported; actor at %v", g.Controller().Position())
	}
	if out.From != 1 || out.To != 2 || out.WorldShift != 390 {
		t.Errorf("outcome = %+v", out)
	}
	if got := ground.Box.Origin.Y; got != groundY+390 {
		t.Errorf("ground y = %v, want %v", got, groundY+390)
	}
	if g.WorldShift() != 390 {
		t.Errorf("WorldShift = %v, want 390", g.WorldShift())
	}

	var proxy components.Body
	g.EachBody(func(b *components.Body) {
		if b.Kind == components.KindControllable {
			proxy = *b
		}
	})
	if proxy.Box != g.Controller().Body().Base() {
		t.Errorf("actor proxy %v out of sync with %v", proxy.Box, g.Controller().Body().Base())
	}

	g.Restart()
	if got := g.Surfaces()[0].Box.Origin.Y; got != groundY {
		t.Errorf("ground after restart = %v, want %v", got, groundY)
	}
	if g.WorldShift() != 0 {
		t.Errorf("WorldShift after restart = %v", g.WorldShift())
	}
	if node, _ := g.Controller().Network().Node(1); node.Active {
		t.Error("restart should reset the teleport network")
	}
}

func TestRunScript(t *testing.T) {
	g := newGame(t, corridor, Options{})
	script, err := input.ParseScript([]byte(`
segments:
  - {frames: 30, hold: [left, right]}
  - {frames: 30}
`))
	if err != nil {
		t.Fatal(err)
	}
	g.RunScript(script, 20)
	if g.Tick() != 20 {
		t.Errorf("tick = %d, want 20", g.Tick())
	}

	g.RunScript(script, 0)
	if g.Tick() != 80 {
		t.Errorf("tick = %d, want 80", g.Tick())
	}
}

func TestOutputFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	g := newGame(t, corridor, Options{OutputDir: dir})
	if _, ok := stepUntil(g, input.Hold(input.MoveRight), systems.EventFinish, 180); !ok {
		t.Fatal("never finished")
	}
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "runs.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("runs.csv = %q, want header and one row", lines)
	}
	if !strings.Contains(lines[1], "corridor,finish") {
		t.Errorf("row = %q", lines[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Error(err)
	}
}
