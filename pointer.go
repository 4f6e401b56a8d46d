// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcompare

import "math"

// Rect is the surface's bounding rectangle in page coordinates.
// A negative Width describes a rectangle extending left of X.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Left returns the left edge.
func (r Rect) Left() float64 {
	if r.Width < 0 {
		return r.X + r.Width
	}
	return r.X
}

// PointerEvent is a mouse or pen move in page coordinates.
type PointerEvent struct {
	PageX float64
	PageY float64
}

// TouchPoint is one active contact of a touch event.
type TouchPoint struct {
	ID    int
	PageX float64
	PageY float64
}

// TouchEvent carries the active touch points; only the first is used.
type TouchEvent struct {
	Touches []TouchPoint
}

// PointerFraction maps a page x coordinate to a split position relative to
// bounds. The result is not clamped. ok is false when bounds has no usable
// width.
func PointerFraction(pageX float64, bounds Rect) (fraction float64, ok bool) {
	w := math.Abs(bounds.Width)
	if w == 0 || math.IsNaN(w) || math.IsInf(w, 0) || math.IsNaN(pageX) {
		return 0, false
	}
	return (pageX - bounds.Left()) / w, true
}
