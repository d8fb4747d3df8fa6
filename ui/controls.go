package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists the overlays as check boxes.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the panel and applies check box clicks to overlays. It
// returns the panel's bottom edge.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight + 4

	categories := overlays.Categories()
	rows := int32(0)
	for _, cat := range categories {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	panelHeight := rows*lineHeight + padding*3 + lineHeight
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			box := rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: 12, Height: 12}
			enabled := overlays.IsEnabled(desc.ID)
			if checked := gui.CheckBox(box, desc.Name, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			if desc.KeyLabel != "" {
				keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
				keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
				rl.DrawText(keyText, c.x+c.width-padding-keyWidth, y, r.Theme.FontSize, rl.Gray)
			}
			y += lineHeight
		}
	}
	return c.y + panelHeight
}

func categoryLabel(cat string) string {
	switch cat {
	case CategoryWorld:
		return "World"
	case CategoryPanels:
		return "Panels"
	default:
		return cat
	}
}
