// Package level loads level layouts: a spawn point and the surfaces the
// actor moves through.
package level

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/subterra/components"
	"github.com/pthm-cable/subterra/geom"
	"github.com/pthm-cable/subterra/systems"
)

//go:embed demo.yaml
var demoYAML []byte

var (
	ErrDanglingLink      = systems.ErrDanglingLink
	ErrDuplicateTeleport = systems.ErrDuplicateTeleport
	ErrBadKind           = components.ErrUnknownKind
	ErrNoSpawn           = errors.New("level has no spawn point")
	ErrBadSurface        = errors.New("invalid surface")
)

// Point is a position in world units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Surface is one body as written in a level file.
type Surface struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	W        float64 `yaml:"w"`
	H        float64 `yaml:"h"`
	Kind     string  `yaml:"kind,omitempty"`     // plain when empty
	Friction float64 `yaml:"friction,omitempty"` // <0 drag, >0 ice
	ID       *int    `yaml:"id,omitempty"`       // teleporters only
	Link     *int    `yaml:"link,omitempty"`     // teleporters only; defaults to ID
}

// Level is a parsed and validated level.
type Level struct {
	Name     string    `yaml:"name"`
	Spawn    *Point    `yaml:"spawn"`
	Surfaces []Surface `yaml:"surfaces"`

	kinds []components.Kind
	links []systems.TeleportLink
}

// Default returns the embedded demo level.
func Default() *Level {
	lvl, err := Parse(demoYAML)
	if err != nil {
		panic(fmt.Sprintf("level: embedded demo is invalid: %v", err))
	}
	return lvl
}

// Load reads and parses a level file. An empty path loads the demo level.
func Load(path string) (*Level, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// Parse decodes and validates a level. Every teleporter link must name a
// teleporter in the same level.
func Parse(data []byte) (*Level, error) {
	lvl := &Level{}
	if err := yaml.Unmarshal(data, lvl); err != nil {
		return nil, fmt.Errorf("parsing level: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return nil, err
	}
	return lvl, nil
}

func (l *Level) validate() error {
	if l.Spawn == nil {
		return ErrNoSpawn
	}
	l.kinds = make([]components.Kind, len(l.Surfaces))
	l.links = l.links[:0]
	for i, s := range l.Surfaces {
		kind, err := components.ParseKind(s.Kind)
		if err != nil {
			return fmt.Errorf("surface %d: %w", i, err)
		}
		if s.W <= 0 || s.H <= 0 {
			return fmt.Errorf("surface %d: size %vx%v: %w", i, s.W, s.H, ErrBadSurface)
		}
		switch {
		case kind == components.KindControllable:
			return fmt.Errorf("surface %d: kind %s is reserved for the actor: %w", i, kind, ErrBadSurface)
		case kind == components.KindTeleport && s.ID == nil:
			return fmt.Errorf("surface %d: teleporter without id: %w", i, ErrBadSurface)
		case kind != components.KindTeleport && (s.ID != nil || s.Link != nil):
			return fmt.Errorf("surface %d: id/link on a %s surface: %w", i, kind, ErrBadSurface)
		}
		l.kinds[i] = kind
		if kind == components.KindTeleport {
			link := *s.ID
			if s.Link != nil {
				link = *s.Link
			}
			l.links = append(l.links, systems.TeleportLink{ID: *s.ID, Link: link})
		}
	}
	if _, err := systems.NewTeleportNetwork(l.links); err != nil {
		return err
	}
	return nil
}

// SpawnPoint returns where the actor starts.
func (l *Level) SpawnPoint() geom.Vec2 {
	return geom.V(l.Spawn.X, l.Spawn.Y)
}

// Bodies returns a fresh copy of every surface as a body, in file order.
func (l *Level) Bodies() []components.Body {
	out := make([]components.Body, len(l.Surfaces))
	for i, s := range l.Surfaces {
		out[i] = components.Body{
			Box:      geom.NewBox(s.X, s.Y, s.W, s.H),
			Kind:     l.kinds[i],
			Friction: s.Friction,
		}
		if s.ID != nil {
			out[i].Teleport = *s.ID
		}
	}
	return out
}

// Network returns a fresh teleport network with nothing activated.
func (l *Level) Network() *systems.TeleportNetwork {
	n, err := systems.NewTeleportNetwork(l.links)
	if err != nil {
		// validate already built this network once.
		panic(fmt.Sprintf("level: %v", err))
	}
	return n
}

// Bounds returns the smallest box containing every surface and the spawn point.
func (l *Level) Bounds() geom.Box {
	minX, minY := l.Spawn.X, l.Spawn.Y
	maxX, maxY := minX, minY
	for _, s := range l.Surfaces {
		minX = min(minX, s.X)
		minY = min(minY, s.Y)
		maxX = max(maxX, s.X+s.W)
		maxY = max(maxY, s.Y+s.H)
	}
	return geom.NewBox(minX, minY, maxX-minX, maxY-minY)
}

// ThinSurfaces returns the indices of solid surfaces thinner than step on
// either axis. A move longer than a surface is thick can pass through it.
func (l *Level) ThinSurfaces(step float64) []int {
	var out []int
	for i, s := range l.Surfaces {
		if l.kinds[i] == components.KindPlain || l.kinds[i] == components.KindTeleport {
			if s.W < step || s.H < step {
				out = append(out, i)
			}
		}
	}
	return out
}
