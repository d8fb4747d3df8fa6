// Jump preview tool - interactive jump arcs with physics sliders.
//
// Usage: go run ./cmd/jumppreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/config"
	"github.com/pthm-cable/subterra/geom"
	"github.com/pthm-cable/subterra/input"
	"github.com/pthm-cable/subterra/systems"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	previewWidth = 880
	groundY      = 620
	panelX       = previewWidth + 20
	panelWidth   = windowWidth - previewWidth - 40
	maxFrames    = 600
)

// slider is one adjustable physics value.
type slider struct {
	label    string
	value    *float64
	min, max float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	physics := base.Physics

	rl.InitWindow(windowWidth, windowHeight, "Jump Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	sliders := []slider{
		{"Jump impulse", &physics.JumpImpulse, 200, 1500},
		{"Double jump impulse", &physics.DoubleJumpImpulse, 0, 1200},
		{"Gravity", &physics.Gravity, 400, 4000},
		{"Terminal velocity", &physics.TerminalVelocity, 200, 3000},
		{"Move speed", &physics.MoveSpeed, 50, 800},
		{"Air control", &physics.AirControl, 0, 1},
	}

	var single, double []rl.Vector2
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			cfg := *base
			cfg.Physics = physics
			shape := cfg.ActorShape(geom.Vec2{})
			single = trace(cfg.Tuning(), shape, cfg.Derived.FrameDT, false)
			double = trace(cfg.Tuning(), shape, cfg.Derived.FrameDT, true)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview
		rl.DrawRectangle(10, 10, previewWidth, windowHeight-20, rl.Color{R: 240, G: 240, B: 240, A: 255})
		rl.DrawLine(10, groundY, previewWidth+10, groundY, rl.DarkGray)
		for h := int32(50); groundY-h > 10; h += 50 {
			rl.DrawLine(10, groundY-h, previewWidth+10, groundY-h, rl.Color{R: 220, G: 220, B: 220, A: 255})
			rl.DrawText(fmt.Sprintf("%d", h), 14, groundY-h-12, 10, rl.Gray)
		}
		drawPath(double, rl.Orange)
		drawPath(single, rl.DarkBlue)
		rl.DrawRectangle(40, groundY-int32(base.Actor.Height), int32(base.Actor.Width), int32(base.Actor.Height), rl.Gold)

		rl.DrawText(fmt.Sprintf("Single: apex %.0f px, reach %.0f px", apex(single), reach(single)), 20, 20, 16, rl.DarkBlue)
		rl.DrawText(fmt.Sprintf("Double: apex %.0f px, reach %.0f px", apex(double), reach(double)), 20, 40, 16, rl.Orange)

		// Control panel
		y := float32(10)
		rl.DrawText("Physics", panelX, int32(y), 20, rl.DarkGray)
		y += 35
		for _, s := range sliders {
			rl.DrawText(s.label, panelX, int32(y), 14, rl.Gray)
			y += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: y, Width: panelWidth - 70, Height: 20},
				"", "",
				float32(*s.value), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf("%.2f", *s.value), panelX+panelWidth-60, int32(y+2), 16, rl.DarkGray)
			if v != float32(*s.value) {
				*s.value = float64(v)
				needsRegen = true
			}
			y += 35
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Reset") {
			physics = base.Physics
			needsRegen = true
		}
		y += 50

		snippet := physicsYAML(physics)
		rl.DrawText("YAML Config:", panelX, int32(y), 16, rl.DarkGray)
		y += 25
		for _, line := range strings.Split(snippet, "\n") {
			rl.DrawText(line, panelX, int32(y), 12, rl.Gray)
			y += 14
		}

		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// trace runs a jump from rest while holding right and returns the actor's
// feet, in preview coordinates, for every frame until landing.
func trace(t systems.Tuning, shape *geom.Composite, dt float64, double bool) []rl.Vector2 {
	floor := &components.Body{Box: geom.NewBox(-1e6, 0, 2e6, 100)}
	surfaces := []*components.Body{floor}

	body := shape.Clone()
	body.SetOrigin(geom.V(0, -body.Base().H))
	c := systems.NewController(t, body, nil)
	c.Update(dt, input.Snapshot{}, surfaces)

	point := func() rl.Vector2 {
		b := c.Body().Base()
		return rl.Vector2{X: 40 + float32(b.Center().X), Y: groundY + float32(b.Bottom())}
	}
	path := []rl.Vector2{point()}

	run := input.Hold(input.MoveRight)
	c.Update(dt, run.With(input.Jump), surfaces)
	path = append(path, point())

	doubled := false
	for i := 0; i < maxFrames && !c.Grounded(); i++ {
		in := run
		if double && !doubled && c.Velocity().Y >= 0 {
			in = in.With(input.Jump)
			doubled = true
		}
		c.Update(dt, in, surfaces)
		path = append(path, point())
	}
	return path
}

func drawPath(path []rl.Vector2, color rl.Color) {
	for i := 1; i < len(path); i++ {
		rl.DrawLineEx(path[i-1], path[i], 2, color)
	}
}

func apex(path []rl.Vector2) float32 {
	var top float32
	for _, p := range path {
		top = max(top, groundY-p.Y)
	}
	return top
}

func reach(path []rl.Vector2) float32 {
	if len(path) < 2 {
		return 0
	}
	return path[len(path)-1].X - path[0].X
}

// physicsYAML renders the physics section the way a config file holds it.
func physicsYAML(p config.PhysicsConfig) string {
	data, err := yaml.Marshal(map[string]config.PhysicsConfig{"physics": p})
	if err != nil {
		return err.Error()
	}
	return strings.TrimSpace(string(data))
}
