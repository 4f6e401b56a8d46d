// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcompare

import (
	"image"
	"time"

	"github.com/gogpu/gg"
)

// ReadyState reports how much of a media source is buffered and decoded.
// The levels mirror the HTML media element's readyState.
type ReadyState int

const (
	// HaveNothing means no metadata is known yet.
	HaveNothing ReadyState = iota

	// HaveMetadata means the intrinsic size is known but no frame is decoded.
	HaveMetadata

	// HaveCurrentData means the frame at the playhead is available.
	HaveCurrentData

	// HaveFutureData means at least one frame past the playhead is available.
	HaveFutureData

	// HaveEnoughData means playback can run through without stalling.
	HaveEnoughData
)

// String returns the readiness level name.
func (s ReadyState) String() string {
	switch s {
	case HaveNothing:
		return "nothing"
	case HaveMetadata:
		return "metadata"
	case HaveCurrentData:
		return "current"
	case HaveFutureData:
		return "future"
	case HaveEnoughData:
		return "enough"
	default:
		return "unknown"
	}
}

// ParseReadyState maps a level name produced by String back to its value.
func ParseReadyState(name string) (ReadyState, bool) {
	for s := HaveNothing; s <= HaveEnoughData; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return HaveNothing, false
}

// MediaSource is a playable packed video: every frame holds variant A in
// its left half and variant B in its right half.
//
// The comparator holds a non-owning reference; the caller keeps ownership
// and closes the source.
type MediaSource interface {
	// Play starts or resumes playback.
	Play() error

	// Pause stops playback at the current position.
	Pause()

	// VideoSize returns the intrinsic packed size, or (0, 0) before
	// metadata is available.
	VideoSize() (width, height int)

	// SetPlaybackRate sets the media time multiplier.
	SetPlaybackRate(rate float64)

	// ReadyState returns the current readiness level.
	ReadyState() ReadyState

	// OnReadyStateChange registers fn for readiness changes. It may be
	// called from any goroutine. The returned function removes fn.
	OnReadyStateChange(fn func(ReadyState)) (unsubscribe func())

	// CurrentFrame returns the packed frame at the playhead, or nil if no
	// pixel data exists yet.
	CurrentFrame() image.Image
}

// Surface is a resizable raster target with a gg drawing context.
type Surface interface {
	// Size returns the surface size in pixels.
	Size() (width, height int)

	// Resize changes the pixel size. Prior content is discarded.
	Resize(width, height int) error

	// Draw calls fn with the drawing context.
	Draw(fn func(dc *gg.Context)) error
}

// Container is the external layout box the surface fills horizontally.
type Container interface {
	Width() float64
}

// ContainerBox is a mutable Container.
type ContainerBox struct {
	W float64
}

// Width implements Container.
func (b *ContainerBox) Width() float64 { return b.W }

// SetWidth updates the layout width.
func (b *ContainerBox) SetWidth(w float64) { b.W = w }

// Scheduler provides the single thread of control the comparator runs on.
//
// RequestAnimationFrame runs fn once at the next display refresh. Post runs
// fn on the scheduler's thread as soon as possible. Both may be called from
// any goroutine.
type Scheduler interface {
	RequestAnimationFrame(fn func(now time.Time))
	Post(fn func())
}
