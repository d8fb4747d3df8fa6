package ui

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/subterra/game"
	"github.com/pthm-cable/subterra/telemetry"
)

// statsEvery is how many frames pass between refreshes of the perf panel.
const statsEvery = 30

// App runs a game in a raylib window. The window must be open before
// NewApp is called.
type App struct {
	game      *game.Game
	keys      Keymap
	hud       *HUD
	overlays  *OverlayRegistry
	controls  *ControlsPanel
	inspector *Inspector
	perfPanel *PerfPanel

	stats  telemetry.PerfStats
	frames int
	quit   bool
}

// NewApp creates the UI for g, with keys bound from the game's config.
func NewApp(g *game.Game) (*App, error) {
	keys, err := ParseKeymap(g.Config().Keys)
	if err != nil {
		return nil, err
	}
	w := int32(g.Camera().ViewportW)
	return &App{
		game:      g,
		keys:      keys,
		hud:       NewHUD(),
		overlays:  NewOverlayRegistry(),
		controls:  NewControlsPanel(10, 85, 220),
		inspector: NewInspector(w-250, 10, 240),
		perfPanel: NewPerfPanel(w-250, 10, 240),
	}, nil
}

// Run steps and draws one game frame per window frame until the window is
// closed, quit is requested or maxTicks frames have run (0 = no limit).
func (a *App) Run(maxTicks int) {
	g := a.game
	for !rl.WindowShouldClose() && !a.quit && !g.QuitRequested() {
		a.handleInput()

		g.Step(float64(rl.GetFrameTime()), a.keys.Poll())

		g.Perf().StartPhase(telemetry.PhaseRender)
		a.draw()
		g.Perf().RecordFrame()
		g.EndFrame()

		a.frames++
		if a.frames%statsEvery == 0 {
			a.stats = g.Perf().Stats()
		}
		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}

// handleInput processes keys that only concern the window: overlays,
// panels, zoom and fullscreen.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}
	a.overlays.HandleKeys()

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.game.Camera().ZoomBy(1 + wheel*0.1)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	a.game.Camera().Resize(w, h)
	a.inspector.SetPosition(int32(w)-250, 10)
	a.perfPanel.SetPosition(int32(w)-250, 10)
}

func (a *App) draw() {
	g := a.game
	ctrl := g.Controller()
	sw := int32(rl.GetScreenWidth())
	sh := int32(rl.GetScreenHeight())

	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	DrawWorld(g, a.overlays)

	a.hud.Draw(HUDData{
		Level:    g.Level().Name,
		Attempt:  g.Attempt(),
		Tick:     g.Tick(),
		Runs:     len(g.Runs()),
		FPS:      rl.GetFPS(),
		Paused:   g.Paused(),
		Dead:     !ctrl.Alive(),
		Finished: ctrl.Finished(),
	})
	a.controls.Draw(a.overlays)

	y := int32(10)
	if a.overlays.IsEnabled(OverlayInspector) {
		y = a.inspector.Draw(InspectorData{
			State:   ctrl.State(),
			Tuning:  ctrl.Tuning(),
			Network: ctrl.Network(),
		}) + 10
	}
	if a.overlays.IsEnabled(OverlayPerf) {
		a.perfPanel.SetPosition(sw-250, y)
		a.perfPanel.Draw(a.stats)
	}

	a.hud.DrawControls(sw, sh, a.keys.Legend()+" | overlays: F1-F5, TAB")

	if g.Paused() {
		switch DrawPauseMenu(sw, sh) {
		case MenuResume:
			g.SetPaused(false)
		case MenuRestart:
			g.Restart()
			g.SetPaused(false)
		case MenuQuit:
			a.quit = true
		}
	}

	rl.EndDrawing()
}
