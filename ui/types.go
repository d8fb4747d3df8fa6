// Package ui draws the game with raylib: the level, the actor, overlays and
// the HUD. Panels are described with field descriptors so the layout can
// follow the controller state without hard-coding every line.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // TextGetter, or Getter through Format
	WidgetCenteredBar                   // Signed value against Range, zero in the middle
	WidgetFlag                          // On/off square
)

// FieldRange is the value span of a centered bar.
type FieldRange struct {
	Min float32
	Max float32
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID         string             // Unique identifier for the field
	Label      string             // Display label
	Widget     WidgetType         // How to render
	Format     string             // Printf format for text (e.g., "%.2f")
	Range      FieldRange         // Span for centered bars
	Visible    func(any) bool     // Optional visibility check (nil = always visible)
	Getter     func(any) float32  // Value extractor (for numeric fields)
	TextGetter func(any) string   // Value extractor (for text fields)
	FlagGetter func(any) bool     // Value extractor (for flags)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string            // Unique identifier
	Title   string            // Section header text
	Fields  []FieldDescriptor // Fields in this section
	Visible func(any) bool    // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	FlagOn          rl.Color
	FlagOff         rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:   rl.Yellow,
		LabelColor:      rl.LightGray,
		ValueColor:      rl.LightGray,
		BarBg:           rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillPositive: rl.Color{R: 100, G: 200, B: 100, A: 255},
		FlagOn:          rl.Color{R: 100, G: 200, B: 100, A: 255},
		FlagOff:         rl.Color{R: 70, G: 70, B: 70, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      80,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}
