package ui

import (
	"fmt"

	"github.com/pthm-cable/subterra/systems"
)

// InspectorData holds what the actor inspector shows.
type InspectorData struct {
	State   systems.State
	Tuning  systems.Tuning
	Network *systems.TeleportNetwork
}

// Inspector renders the actor state panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	sections []SectionDescriptor
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sections: inspectorSections(),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel and returns its bottom edge.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	height := padding * 2
	for _, sd := range ins.sections {
		height += r.SectionHeight(sd, data)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	contentWidth := ins.width - padding*2
	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+padding, y, sd, data, contentWidth)
	}
	return ins.y + height
}

func inspectorSections() []SectionDescriptor {
	state := func(d any) systems.State { return d.(InspectorData).State }
	tuning := func(d any) systems.Tuning { return d.(InspectorData).Tuning }

	return []SectionDescriptor{
		{
			ID:    "motion",
			Title: "Actor",
			Fields: []FieldDescriptor{
				{ID: "pos", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
					p := state(d).Position
					return fmt.Sprintf("%.1f, %.1f", p.X, p.Y)
				}},
				{ID: "vx", Label: "Vel X", Widget: WidgetCenteredBar, Range: FieldRange{Min: -600, Max: 600},
					Getter: func(d any) float32 { return float32(state(d).Velocity.X) }},
				{ID: "vy", Label: "Vel Y", Widget: WidgetCenteredBar, Range: FieldRange{Min: -800, Max: 1200},
					Getter: func(d any) float32 { return float32(state(d).Velocity.Y) }},
			},
		},
		{
			ID:    "flags",
			Title: "State",
			Fields: []FieldDescriptor{
				{ID: "grounded", Label: "Grounded", Widget: WidgetFlag, FlagGetter: func(d any) bool { return state(d).Grounded }},
				{ID: "double", Label: "Double jump", Widget: WidgetFlag, FlagGetter: func(d any) bool { return state(d).CanDoubleJump }},
				{ID: "sliding", Label: "Sliding", Widget: WidgetFlag, FlagGetter: func(d any) bool { return state(d).Sliding }},
				{ID: "stuck", Label: "Stuck", Widget: WidgetFlag, FlagGetter: func(d any) bool { return state(d).Stuck }},
				{ID: "flying", Label: "Flying", Widget: WidgetFlag, FlagGetter: func(d any) bool { return state(d).Flying }},
			},
		},
		{
			ID:    "tuning",
			Title: "Tuning",
			Fields: []FieldDescriptor{
				{ID: "move", Label: "Move speed", Widget: WidgetText, Format: "%.0f",
					Getter: func(d any) float32 { return float32(tuning(d).MoveSpeed) }},
				{ID: "jump", Label: "Jump", Widget: WidgetText, TextGetter: func(d any) string {
					t := tuning(d)
					return fmt.Sprintf("%.0f / %.0f", t.JumpImpulse, t.DoubleJumpImpulse)
				}},
				{ID: "scroll", Label: "Scroll", Widget: WidgetFlag, FlagGetter: func(d any) bool { return tuning(d).ScrollFollow }},
			},
		},
		{
			ID:    "teleport",
			Title: "Teleporters",
			Visible: func(d any) bool {
				return d.(InspectorData).Network.Len() > 0
			},
			Fields: []FieldDescriptor{
				{ID: "count", Label: "Pads", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", d.(InspectorData).Network.Len())
				}},
				{ID: "newest", Label: "Newest", Widget: WidgetText, TextGetter: func(d any) string {
					if id, ok := d.(InspectorData).Network.Newest(); ok {
						return fmt.Sprintf("%d", id)
					}
					return "-"
				}},
			},
		},
	}
}
