// Package geom provides the value geometry used by collision resolution:
// vectors, axis-aligned boxes and composite bodies built from offset parts.
package geom

import (
	"fmt"
	"math"
)

// Vec2 is a 2D float pair. It is a value type; every operation returns a new vector.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// ScaleTo returns v rescaled to the given length.
// A zero-length vector has no direction and yields the zero vector.
func (v Vec2) ScaleTo(length float64) Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(length / l)
}

// AngleDegrees returns the direction of v in degrees, in [0, 360).
// Vertical vectors are answered directly (90 or 270) so the x == 0 case never divides.
func (v Vec2) AngleDegrees() float64 {
	if v.X == 0 {
		switch {
		case v.Y > 0:
			return 90
		case v.Y < 0:
			return 270
		default:
			return 0
		}
	}
	deg := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) String() string {
	return fmt.Sprintf("<%.2f, %.2f>", v.X, v.Y)
}
