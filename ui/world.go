package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/subterra/camera"
	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/game"
	"github.com/pthm-cable/subterra/geom"
)

var (
	colorBackground = rl.Color{R: 18, G: 20, B: 26, A: 255}
	colorPlain      = rl.Color{R: 96, G: 100, B: 110, A: 255}
	colorDrag       = rl.Color{R: 110, G: 90, B: 70, A: 255}
	colorIce        = rl.Color{R: 150, G: 200, B: 230, A: 255}
	colorLethal     = rl.Color{R: 200, G: 60, B: 60, A: 255}
	colorFinish     = rl.Color{R: 80, G: 200, B: 110, A: 255}
	colorTeleport   = rl.Color{R: 170, G: 110, B: 220, A: 255}
	colorActive     = rl.Color{R: 230, G: 180, B: 255, A: 255}
	colorActor      = rl.Color{R: 240, G: 200, B: 80, A: 255}
	colorActorDead  = rl.Color{R: 120, G: 60, B: 60, A: 255}
)

// camera2D converts the follow camera into a raylib camera.
func camera2D(c *camera.Camera) rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: c.ViewportW / 2, Y: c.ViewportH / 2},
		Target: rl.Vector2{X: c.X, Y: c.Y},
		Zoom:   c.Zoom,
	}
}

func rect(b geom.Box) rl.Rectangle {
	return rl.Rectangle{X: float32(b.Origin.X), Y: float32(b.Origin.Y), Width: float32(b.W), Height: float32(b.H)}
}

// bodyColor picks a body's fill from its kind and friction.
func bodyColor(b *components.Body, g *game.Game) rl.Color {
	switch b.Kind {
	case components.KindLethal:
		return colorLethal
	case components.KindFinish:
		return colorFinish
	case components.KindTeleport:
		if node, ok := g.Controller().Network().Node(b.Teleport); ok && node.Active {
			return colorActive
		}
		return colorTeleport
	case components.KindControllable:
		if !g.Controller().Alive() {
			return colorActorDead
		}
		return colorActor
	}
	switch {
	case b.Friction < 0:
		return colorDrag
	case b.Friction > 0:
		return colorIce
	}
	return colorPlain
}

// DrawWorld draws every visible body of the game in world space.
func DrawWorld(g *game.Game, overlays *OverlayRegistry) {
	cam := g.Camera()
	rl.BeginMode2D(camera2D(cam))

	g.EachBody(func(b *components.Body) {
		if b.Kind == components.KindControllable || !cam.IsVisible(b.Box) {
			return
		}
		rl.DrawRectangleRec(rect(b.Box), bodyColor(b, g))
		if b.Kind == components.KindTeleport {
			rl.DrawText(fmt.Sprintf("%d", b.Teleport), int32(b.Box.Origin.X)+4, int32(b.Box.Origin.Y)-14, 12, colorTeleport)
		}
	})

	drawActor(g, overlays.IsEnabled(OverlayHitboxes))
	if overlays.IsEnabled(OverlayTeleportLinks) {
		drawTeleportLinks(g)
	}
	if overlays.IsEnabled(OverlayLevelBounds) {
		drawLevelBounds(g)
	}

	rl.EndMode2D()
}

// drawActor fills the actor's base box; with hitboxes on, every part of
// its shape is outlined as well.
func drawActor(g *game.Game, hitboxes bool) {
	body := g.Controller().Body()
	color := colorActor
	if !g.Controller().Alive() {
		color = colorActorDead
	}
	rl.DrawRectangleRec(rect(body.Base()), color)
	if !hitboxes {
		return
	}
	for _, b := range body.Boxes() {
		rl.DrawRectangleLinesEx(rect(b), 1, rl.Red)
	}
}

// drawTeleportLinks draws an arrow from every pad to the pad it sends the
// actor to.
func drawTeleportLinks(g *game.Game) {
	pads := make(map[int]geom.Vec2)
	for _, b := range g.Surfaces() {
		if b.Kind == components.KindTeleport {
			pads[b.Teleport] = b.Box.Center()
		}
	}
	net := g.Controller().Network()
	for _, id := range net.IDs() {
		node, _ := net.Node(id)
		if node.Target == id {
			continue
		}
		from, okFrom := pads[id]
		to, okTo := pads[node.Target]
		if !okFrom || !okTo {
			continue
		}
		a := rl.Vector2{X: float32(from.X), Y: float32(from.Y)}
		b := rl.Vector2{X: float32(to.X), Y: float32(to.Y)}
		rl.DrawLineEx(a, b, 2, colorActive)
		rl.DrawCircleV(b, 5, colorActive)
	}
}

func drawLevelBounds(g *game.Game) {
	bounds := g.Level().Bounds().Translate(geom.V(0, g.WorldShift()))
	rl.DrawRectangleLinesEx(rect(bounds), 2, rl.SkyBlue)
}
