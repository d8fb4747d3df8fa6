package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/subterra/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Level    string
	Attempt  int
	Tick     int
	Runs     int
	FPS      int32
	Paused   bool
	Dead     bool
	Finished bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Level, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Attempt: %d | Tick: %d | Runs: %d | FPS: %d", data.Attempt, data.Tick, data.Runs, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	switch {
	case data.Finished:
		rl.DrawText("FINISHED - press restart", 10, 55, 16, rl.Green)
	case data.Dead:
		rl.DrawText("DEAD - press restart", 10, 55, 16, rl.Red)
	case data.Paused:
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	gui.StatusBar(rl.Rectangle{X: 0, Y: float32(screenHeight - 24), Width: float32(screenWidth), Height: 24}, controls)
}

// PerfPanel renders per-phase frame timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.Phases()
	height := r.Theme.Padding*2 + 36 + int32(len(phases))*14
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding

	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Tick: %s (max %s)",
		stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)),
		x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// MenuAction is a choice made in the pause menu.
type MenuAction int

const (
	MenuNone MenuAction = iota
	MenuResume
	MenuRestart
	MenuQuit
)

// DrawPauseMenu draws the pause menu centered on screen and returns the
// button clicked this frame, if any.
func DrawPauseMenu(screenWidth, screenHeight int32) MenuAction {
	const w, h = 220, 170
	x := float32(screenWidth-w) / 2
	y := float32(screenHeight-h) / 2

	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.Color{R: 0, G: 0, B: 0, A: 120})
	gui.Panel(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, "Paused")

	button := func(row int, label string) bool {
		return gui.Button(rl.Rectangle{X: x + 20, Y: y + 36 + float32(row)*42, Width: w - 40, Height: 32}, label)
	}
	resume := button(0, "Resume")
	restart := button(1, "Restart")
	quit := button(2, "Quit")
	switch {
	case resume:
		return MenuResume
	case restart:
		return MenuRestart
	case quit:
		return MenuQuit
	}
	return MenuNone
}
