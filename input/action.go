// Package input defines logical actions and per-frame input snapshots.
// Device polling lives in package ui; everything here is pure.
package input

import (
	"fmt"
	"strings"
)

// Action is a logical control.
type Action uint8

const (
	MoveLeft Action = iota
	MoveRight
	Jump
	Slide
	ToggleFly
	Pause
	Restart
	Quit
	numActions
)

var actionNames = [numActions]string{
	"left", "right", "jump", "slide", "fly", "pause", "restart", "quit",
}

// String returns the action's config name.
func (a Action) String() string {
	if a < numActions {
		return actionNames[a]
	}
	return "unknown"
}

// Actions returns every action in declaration order.
func Actions() []Action {
	out := make([]Action, numActions)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// ParseAction returns the action with the given name (case-insensitive).
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Snapshot is the set of actions held during one frame.
type Snapshot struct {
	held uint16
}

// Hold returns a snapshot with the given actions held.
func Hold(actions ...Action) Snapshot {
	var s Snapshot
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// With returns s with a held.
func (s Snapshot) With(a Action) Snapshot {
	s.held |= 1 << a
	return s
}

// Held reports whether a is held.
func (s Snapshot) Held(a Action) bool {
	return s.held&(1<<a) != 0
}

// Horizontal returns -1 for left, +1 for right and 0 when neither or both are held.
func (s Snapshot) Horizontal() float64 {
	var d float64
	if s.Held(MoveLeft) {
		d--
	}
	if s.Held(MoveRight) {
		d++
	}
	return d
}

// Empty reports whether nothing is held.
func (s Snapshot) Empty() bool {
	return s.held == 0
}

func (s Snapshot) String() string {
	var names []string
	for _, a := range Actions() {
		if s.Held(a) {
			names = append(names, a.String())
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}
