// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcompare

import (
	"time"

	"github.com/gogpu/gg"
)

// DefaultPlaybackRate slows playback so differences between the variants
// are easier to follow.
const DefaultPlaybackRate = 0.5

// Option configures a Comparator during creation.
//
// Example:
//
//	c := ggcompare.New(src, surf, box, loop,
//	    ggcompare.WithStyle(ggcompare.DarkStyle()),
//	    ggcompare.WithLabels("baseline", "ours"),
//	)
type Option func(*options)

type options struct {
	style          Style
	labelA, labelB string
	labelSize      float64
	playbackRate   float64
	readyThreshold ReadyState
	interpolation  gg.InterpolationMode
	afterDraw      func(now time.Time)
}

func defaultOptions() options {
	return options{
		style:          DefaultStyle(),
		labelSize:      DefaultLabelSize,
		playbackRate:   DefaultPlaybackRate,
		readyThreshold: HaveFutureData,
		interpolation:  gg.InterpBilinear,
	}
}

// WithStyle sets the split indicator colors and line width.
func WithStyle(s Style) Option {
	return func(o *options) {
		o.style = s
	}
}

// WithLabels draws a caption for each variant. Empty strings are skipped.
func WithLabels(a, b string) Option {
	return func(o *options) {
		o.labelA = a
		o.labelB = b
	}
}

// WithLabelSize sets the label font size in pixels. Non-positive sizes are
// ignored.
func WithLabelSize(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.labelSize = px
		}
	}
}

// WithPlaybackRate sets the media playback rate applied at construction.
// Non-positive rates are ignored.
func WithPlaybackRate(rate float64) Option {
	return func(o *options) {
		if rate > 0 {
			o.playbackRate = rate
		}
	}
}

// WithReadyThreshold sets the readiness level PlayWhenReady waits for.
func WithReadyThreshold(s ReadyState) Option {
	return func(o *options) {
		o.readyThreshold = s
	}
}

// WithInterpolation sets the sampling mode for the scaled frame blits.
func WithInterpolation(mode gg.InterpolationMode) Option {
	return func(o *options) {
		o.interpolation = mode
	}
}

// WithAfterDraw registers fn to run on the scheduler thread after every
// composited frame, for example to publish the surface.
func WithAfterDraw(fn func(now time.Time)) Option {
	return func(o *options) {
		o.afterDraw = fn
	}
}
