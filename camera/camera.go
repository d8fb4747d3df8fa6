// Package camera provides a 2D follow camera for viewport control.
package camera

import (
	"math"

	"github.com/pthm-cable/subterra/geom"
)

// Camera controls the viewport into the level. It eases toward a target
// and, when bounds are set, never shows space outside them.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// FollowRate is how quickly Follow closes the gap, per second.
	// Zero snaps to the target.
	FollowRate float32

	bounds    geom.Box
	hasBounds bool
}

// New creates a camera centered on (x, y) with 1:1 zoom.
func New(viewportW, viewportH, x, y float32) *Camera {
	return &Camera{
		X:         x,
		Y:         y,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.25,
		MaxZoom:   4.0,
	}
}

// SetBounds limits the visible area to b. An empty box removes the limit.
func (c *Camera) SetBounds(b geom.Box) {
	c.bounds = b
	c.hasBounds = !b.Empty()
	c.clampToBounds()
}

// Follow eases the camera toward (x, y) over dt seconds. The step is
// 1-exp(-rate*dt) of the remaining gap, so it does not depend on frame rate.
func (c *Camera) Follow(x, y, dt float32) {
	t := float32(1)
	if c.FollowRate > 0 && dt > 0 {
		t = 1 - float32(math.Exp(float64(-c.FollowRate*dt)))
	}
	c.X += (x - c.X) * t
	c.Y += (y - c.Y) * t
	c.clampToBounds()
}

// CenterOn moves the camera to (x, y) immediately.
func (c *Camera) CenterOn(x, y float32) {
	c.X, c.Y = x, y
	c.clampToBounds()
}

// Shift moves the camera by a world offset. Used to follow the level when
// every surface is moved at once, so the view does not jump.
func (c *Camera) Shift(dx, dy float32) {
	c.X += dx
	c.Y += dy
	c.bounds = c.bounds.Translate(geom.V(float64(dx), float64(dy)))
	c.clampToBounds()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if any part of b is on screen.
func (c *Camera) IsVisible(b geom.Box) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return float32(b.Right()) >= minX && float32(b.Left()) <= maxX &&
		float32(b.Bottom()) >= minY && float32(b.Top()) <= maxY
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampToBounds()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampToBounds()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampToBounds keeps the view inside the bounds. On an axis where the
// bounds are smaller than the view, the camera centers on them.
func (c *Camera) clampToBounds() {
	if !c.hasBounds {
		return
	}
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clampAxis(c.X, halfW, float32(c.bounds.Left()), float32(c.bounds.Right()))
	c.Y = clampAxis(c.Y, halfH, float32(c.bounds.Top()), float32(c.bounds.Bottom()))
}

func clampAxis(v, half, lo, hi float32) float32 {
	if hi-lo <= 2*half {
		return (lo + hi) / 2
	}
	return clamp(v, lo+half, hi-half)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
