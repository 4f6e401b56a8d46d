// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcompare

import (
	"math"

	"github.com/gogpu/gg"
)

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Split holds the reveal column for one split position, in two spaces.
//
// ColStart and ColWidth are destination (surface) coordinates. SrcStart and
// SrcWidth are source coordinates relative to the right half of the packed
// frame. Each pair is clamped against its own space, so ColStart+ColWidth
// equals the surface width and SrcStart+SrcWidth the logical frame width
// for any position in [0, 1].
type Split struct {
	ColStart float64
	ColWidth float64
	SrcStart float64
	SrcWidth float64
}

// ComputeSplit derives the reveal column for position. The stored position
// is never pre-clamped; out-of-range values pin at the edges.
func ComputeSplit(position, surfaceWidth, frameWidth float64) Split {
	return Split{
		ColStart: Clamp(surfaceWidth*position, 0, surfaceWidth),
		ColWidth: Clamp(surfaceWidth-surfaceWidth*position, 0, surfaceWidth),
		SrcStart: Clamp(frameWidth*position, 0, frameWidth),
		SrcWidth: Clamp(frameWidth-frameWidth*position, 0, frameWidth),
	}
}

// LogicalFrame returns the size of one half of a packed frame.
func LogicalFrame(videoWidth, videoHeight int) (width, height float64) {
	return float64(videoWidth) / 2, float64(videoHeight)
}

// FitSurface sizes the surface to the container width while keeping the
// aspect ratio of one logical frame. ok is false until the video reports
// its dimensions or when the container has no width.
func FitSurface(containerWidth float64, videoWidth, videoHeight int) (width, height int, ok bool) {
	frameW, frameH := LogicalFrame(videoWidth, videoHeight)
	if frameW <= 0 || frameH <= 0 {
		return 0, 0, false
	}
	if math.IsNaN(containerWidth) || math.IsInf(containerWidth, 0) {
		return 0, 0, false
	}
	width = int(containerWidth)
	if width <= 0 {
		return 0, 0, false
	}
	height = int(float64(width) * frameH / frameW)
	if height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// Handle describes the draggable affordance drawn on the divider.
type Handle struct {
	X, Y            float64
	Radius          float64
	ArrowLength     float64
	ArrowheadLength float64
	ArrowheadWidth  float64
	ShaftWidth      float64
}

// HandleGeometry scales the handle to the surface height and centres it on
// the divider at x, one tenth of the way down.
func HandleGeometry(x, surfaceHeight float64) Handle {
	arrowLength := 0.09 * surfaceHeight
	return Handle{
		X:               x,
		Y:               surfaceHeight / 10,
		Radius:          0.7 * arrowLength,
		ArrowLength:     arrowLength,
		ArrowheadLength: 0.04 * surfaceHeight,
		ArrowheadWidth:  0.025 * surfaceHeight,
		ShaftWidth:      0.007 * surfaceHeight,
	}
}

// ArrowPolygon returns the closed outline of the horizontal double-headed
// arrow, starting at the top of the shaft's centre and running clockwise.
func (h Handle) ArrowPolygon() []gg.Point {
	half := h.ArrowLength / 2
	neck := half - h.ArrowheadLength/2
	shaft := h.ShaftWidth / 2
	head := h.ArrowheadWidth / 2

	return []gg.Point{
		gg.Pt(h.X, h.Y-shaft),
		gg.Pt(h.X+neck, h.Y-shaft),
		gg.Pt(h.X+neck, h.Y-head),
		gg.Pt(h.X+half, h.Y),
		gg.Pt(h.X+neck, h.Y+head),
		gg.Pt(h.X+neck, h.Y+shaft),
		gg.Pt(h.X-neck, h.Y+shaft),
		gg.Pt(h.X-neck, h.Y+head),
		gg.Pt(h.X-half, h.Y),
		gg.Pt(h.X-neck, h.Y-head),
		gg.Pt(h.X-neck, h.Y-shaft),
	}
}
