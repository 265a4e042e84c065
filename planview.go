package planview

import (
	"math"
	"strconv"
)

// Vec2 is a 2D vector used for positions, offsets and velocities.
type Vec2 struct {
	X, Y float64
}

// Len returns the length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// ViewBox is the visible region of the plan in map space, in the same
// (x, y, width, height) order as the SVG viewBox attribute.
type ViewBox struct {
	X, Y, Width, Height float64
}

// Center returns the map-space point at the middle of the view box.
func (vb ViewBox) Center() Vec2 {
	return Vec2{X: vb.X + vb.Width/2, Y: vb.Y + vb.Height/2}
}

// Rect returns the view box as a Rect.
func (vb ViewBox) Rect() Rect {
	return Rect(vb)
}

// String formats the view box as an SVG viewBox attribute value.
func (vb ViewBox) String() string {
	b := make([]byte, 0, 48)
	b = strconv.AppendFloat(b, vb.X, 'f', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, vb.Y, 'f', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, vb.Width, 'f', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, vb.Height, 'f', -1, 64)
	return string(b)
}

// InputType distinguishes the device that produced a pan.
type InputType uint8

const (
	InputMouse InputType = iota // mouse or pen pointer
	InputTouch                  // finger on a touch screen
)

func (t InputType) String() string {
	if t == InputTouch {
		return "touch"
	}
	return "mouse"
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key; browsers set it on trackpad pinch
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// finite reports whether every value is neither NaN nor infinite.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
