package ui

import (
	"fmt"
	"sort"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/subterra/input"
)

// keyNames maps raylib key names, as written in config files, to key codes.
var keyNames = map[string]int32{
	"KEY_SPACE": rl.KeySpace, "KEY_ESCAPE": rl.KeyEscape, "KEY_ENTER": rl.KeyEnter,
	"KEY_TAB": rl.KeyTab, "KEY_BACKSPACE": rl.KeyBackspace,
	"KEY_LEFT": rl.KeyLeft, "KEY_RIGHT": rl.KeyRight, "KEY_UP": rl.KeyUp, "KEY_DOWN": rl.KeyDown,
	"KEY_LEFT_SHIFT": rl.KeyLeftShift, "KEY_RIGHT_SHIFT": rl.KeyRightShift,
	"KEY_LEFT_CONTROL": rl.KeyLeftControl, "KEY_RIGHT_CONTROL": rl.KeyRightControl,
	"KEY_LEFT_ALT": rl.KeyLeftAlt, "KEY_RIGHT_ALT": rl.KeyRightAlt,
	"KEY_A": rl.KeyA, "KEY_B": rl.KeyB, "KEY_C": rl.KeyC, "KEY_D": rl.KeyD, "KEY_E": rl.KeyE,
	"KEY_F": rl.KeyF, "KEY_G": rl.KeyG, "KEY_H": rl.KeyH, "KEY_I": rl.KeyI, "KEY_J": rl.KeyJ,
	"KEY_K": rl.KeyK, "KEY_L": rl.KeyL, "KEY_M": rl.KeyM, "KEY_N": rl.KeyN, "KEY_O": rl.KeyO,
	"KEY_P": rl.KeyP, "KEY_Q": rl.KeyQ, "KEY_R": rl.KeyR, "KEY_S": rl.KeyS, "KEY_T": rl.KeyT,
	"KEY_U": rl.KeyU, "KEY_V": rl.KeyV, "KEY_W": rl.KeyW, "KEY_X": rl.KeyX, "KEY_Y": rl.KeyY,
	"KEY_Z": rl.KeyZ,
	"KEY_ZERO": rl.KeyZero, "KEY_ONE": rl.KeyOne, "KEY_TWO": rl.KeyTwo, "KEY_THREE": rl.KeyThree,
	"KEY_FOUR": rl.KeyFour, "KEY_FIVE": rl.KeyFive, "KEY_SIX": rl.KeySix, "KEY_SEVEN": rl.KeySeven,
	"KEY_EIGHT": rl.KeyEight, "KEY_NINE": rl.KeyNine,
}

// Keymap binds each action to the keys that hold it.
type Keymap map[input.Action][]int32

// ParseKeymap resolves config key bindings. Unknown action or key names are
// errors.
func ParseKeymap(bindings map[string][]string) (Keymap, error) {
	km := make(Keymap, len(bindings))
	actions := make([]string, 0, len(bindings))
	for name := range bindings {
		actions = append(actions, name)
	}
	sort.Strings(actions)

	for _, name := range actions {
		a, err := input.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		for _, key := range bindings[name] {
			code, ok := keyNames[strings.ToUpper(strings.TrimSpace(key))]
			if !ok {
				return nil, fmt.Errorf("keys: %s: unknown key %q", name, key)
			}
			km[a] = append(km[a], code)
		}
	}
	return km, nil
}

// Poll reads the keyboard into a snapshot.
func (km Keymap) Poll() input.Snapshot {
	var s input.Snapshot
	for a, keys := range km {
		for _, k := range keys {
			if rl.IsKeyDown(k) {
				s = s.With(a)
				break
			}
		}
	}
	return s
}

// Legend returns a one-line summary of the bindings, e.g. "jump: SPACE/W".
func (km Keymap) Legend() string {
	codes := make(map[int32]string, len(keyNames))
	for name, code := range keyNames {
		codes[code] = strings.TrimPrefix(name, "KEY_")
	}
	var parts []string
	for _, a := range input.Actions() {
		keys := km[a]
		if len(keys) == 0 {
			continue
		}
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = codes[k]
		}
		parts = append(parts, a.String()+": "+strings.Join(names, "/"))
	}
	return strings.Join(parts, " | ")
}
