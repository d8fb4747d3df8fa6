package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable debug layer.
type OverlayID string

const (
	OverlayHitboxes      OverlayID = "hitboxes"
	OverlayTeleportLinks OverlayID = "teleport_links"
	OverlayLevelBounds   OverlayID = "level_bounds"
	OverlayInspector     OverlayID = "inspector"
	OverlayPerf          OverlayID = "perf"
)

// Overlay categories, in panel order.
const (
	CategoryWorld  = "world"
	CategoryPanels = "panels"
)

// OverlayDescriptor describes one overlay and the key that toggles it.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // 0 = no key
	KeyLabel string // e.g. "F1"
	Category string
}

type overlay struct {
	OverlayDescriptor
	on bool
}

// OverlayRegistry holds the overlays in registration order with their state.
type OverlayRegistry struct {
	overlays []overlay
}

// NewOverlayRegistry creates a registry with every overlay off.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{}
	for _, d := range []OverlayDescriptor{
		{OverlayHitboxes, "Hitboxes", rl.KeyF1, "F1", CategoryWorld},
		{OverlayTeleportLinks, "Teleport Links", rl.KeyF2, "F2", CategoryWorld},
		{OverlayLevelBounds, "Level Bounds", rl.KeyF3, "F3", CategoryWorld},
		{OverlayInspector, "Inspector", rl.KeyF4, "F4", CategoryPanels},
		{OverlayPerf, "Frame Timing", rl.KeyF5, "F5", CategoryPanels},
	} {
		r.Register(d)
	}
	return r
}

// Register adds an overlay, initially off. Registering an existing ID
// replaces its descriptor.
func (r *OverlayRegistry) Register(d OverlayDescriptor) {
	if o := r.find(d.ID); o != nil {
		o.OverlayDescriptor = d
		return
	}
	r.overlays = append(r.overlays, overlay{OverlayDescriptor: d})
}

func (r *OverlayRegistry) find(id OverlayID) *overlay {
	for i := range r.overlays {
		if r.overlays[i].ID == id {
			return &r.overlays[i]
		}
	}
	return nil
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	o := r.find(id)
	if o == nil {
		return false
	}
	o.on = !o.on
	return o.on
}

// SetEnabled turns an overlay on or off.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	if o := r.find(id); o != nil {
		o.on = on
	}
}

// IsEnabled reports whether an overlay is on. Unknown IDs are off.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	o := r.find(id)
	return o != nil && o.on
}

// ByCategory returns the descriptors in one category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, o := range r.overlays {
		if o.Category == category {
			out = append(out, o.OverlayDescriptor)
		}
	}
	return out
}

// Categories returns each category once, in first-registered order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, o := range r.overlays {
		seen := false
		for _, c := range cats {
			if c == o.Category {
				seen = true
				break
			}
		}
		if !seen {
			cats = append(cats, o.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, o := range r.overlays {
		if o.Key != 0 && rl.IsKeyPressed(o.Key) {
			r.Toggle(o.ID)
		}
	}
}
