// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcompare

import (
	"image"
	"math"
	"reflect"
	"time"

	"github.com/gogpu/gg"
)

// DefaultSplitPosition is the split position of an untouched comparator.
const DefaultSplitPosition = 0.5

// State is the comparator's playback state.
type State int

const (
	// Paused means no draw loop is running.
	Paused State = iota

	// Playing means the draw loop reschedules itself every refresh.
	Playing
)

// String returns the state name.
func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "paused"
}

// Comparator composites a packed before/after video onto a surface with a
// pointer-driven vertical split.
//
// A Comparator is confined to its Scheduler's thread: call every method
// from that thread, typically from a Post callback or an event handler run
// by the scheduler. Media readiness notifications arriving on other
// goroutines are marshalled with Scheduler.Post.
type Comparator struct {
	src   MediaSource
	surf  Surface
	box   Container
	sched Scheduler
	opts  options

	labels *labelPainter

	position     float64
	playing      bool
	framePending bool
	closed       bool

	listenerAttached bool
	unsubscribe      func()

	frameImg image.Image
	frameBuf *gg.ImageBuf
}

// New creates a paused Comparator bound to src and surf. box supplies the
// layout width the surface is fitted to and sched drives the draw loop.
func New(src MediaSource, surf Surface, box Container, sched Scheduler, opts ...Option) *Comparator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Comparator{
		src:      src,
		surf:     surf,
		box:      box,
		sched:    sched,
		opts:     o,
		position: DefaultSplitPosition,
	}
	if o.labelA != "" || o.labelB != "" {
		c.labels = newLabelPainter(o.labelA, o.labelB, o.labelSize)
	}
	src.SetPlaybackRate(o.playbackRate)
	return c
}

// SplitPosition returns the stored split position. It may lie outside
// [0, 1]; drawing clamps it.
func (c *Comparator) SplitPosition() float64 {
	return c.position
}

// SetSplitPosition stores fraction as given. Clamping happens when the
// position is turned into coordinates.
func (c *Comparator) SetSplitPosition(fraction float64) {
	c.position = fraction
}

// IsPlaying reports whether the draw loop is meant to keep running.
func (c *Comparator) IsPlaying() bool {
	return c.playing
}

// State returns Playing or Paused.
func (c *Comparator) State() State {
	if c.playing {
		return Playing
	}
	return Paused
}

// Resize fits the surface to the container width, keeping the aspect
// ratio of one logical frame. It does nothing until the media reports its
// intrinsic size.
func (c *Comparator) Resize() {
	vw, vh := c.src.VideoSize()
	w, h, ok := FitSurface(c.box.Width(), vw, vh)
	if !ok {
		Logger().Debug("resize deferred", "video_width", vw, "video_height", vh, "container_width", c.box.Width())
		return
	}
	if err := c.surf.Resize(w, h); err != nil {
		Logger().Warn("surface resize failed", "width", w, "height", h, "error", err)
	}
}

// Play resizes the surface, starts the media and the draw loop. Calling
// Play while playing only resizes.
func (c *Comparator) Play() {
	if c.closed {
		return
	}
	c.Resize()
	if c.playing {
		return
	}
	c.playing = true
	if err := c.src.Play(); err != nil {
		Logger().Warn("media play failed", "error", err)
	}
	Logger().Info("comparator playing", "position", c.position)
	c.requestFrame()
}

// Pause stops the media and ends the draw loop after the frame in flight.
// A pending PlayWhenReady subscription is dropped.
func (c *Comparator) Pause() {
	c.src.Pause()
	if c.playing {
		Logger().Info("comparator paused")
	}
	c.playing = false
	c.detachReadyListener()
}

// PlayWhenReady plays at once when the media is buffered to the ready
// threshold, otherwise it waits for the first readiness change that
// reaches it. Repeated calls while waiting share one subscription.
func (c *Comparator) PlayWhenReady() {
	if c.closed {
		return
	}
	state := c.src.ReadyState()
	Logger().Debug("play when ready", "ready_state", state, "threshold", c.opts.readyThreshold)
	if state >= c.opts.readyThreshold {
		c.Play()
		return
	}
	if c.listenerAttached {
		return
	}
	c.listenerAttached = true
	c.unsubscribe = c.src.OnReadyStateChange(func(s ReadyState) {
		c.sched.Post(func() { c.onReadyStateChange(s) })
	})

	// The media may have crossed the threshold before the listener existed.
	if s := c.src.ReadyState(); s >= c.opts.readyThreshold {
		c.onReadyStateChange(s)
	}
}

func (c *Comparator) onReadyStateChange(s ReadyState) {
	if !c.listenerAttached || c.closed {
		return
	}
	Logger().Debug("ready state changed", "ready_state", s)
	if s < c.opts.readyThreshold {
		return
	}
	c.detachReadyListener()
	c.Play()
}

func (c *Comparator) detachReadyListener() {
	if !c.listenerAttached {
		return
	}
	c.listenerAttached = false
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// HandlePointerMove maps a pointer position inside bounds to the split.
func (c *Comparator) HandlePointerMove(ev PointerEvent, bounds Rect) {
	if f, ok := PointerFraction(ev.PageX, bounds); ok {
		c.SetSplitPosition(f)
	}
}

// HandleTouch maps the first touch point to the split. Events without
// touch points are ignored.
func (c *Comparator) HandleTouch(ev TouchEvent, bounds Rect) {
	if len(ev.Touches) == 0 {
		return
	}
	if f, ok := PointerFraction(ev.Touches[0].PageX, bounds); ok {
		c.SetSplitPosition(f)
	}
}

// HandlePointerLeave recentres the split.
func (c *Comparator) HandlePointerLeave() {
	c.position = DefaultSplitPosition
}

// HandleVisibility plays when the comparator becomes visible and pauses
// when it is hidden.
func (c *Comparator) HandleVisibility(visible bool) {
	if visible {
		c.PlayWhenReady()
		return
	}
	c.Pause()
}

// HandleContainerResize refits the surface after a layout change.
func (c *Comparator) HandleContainerResize() {
	c.Resize()
}

// Close pauses and releases the readiness subscription. The media source
// and surface stay open; they belong to the caller.
func (c *Comparator) Close() {
	if c.closed {
		return
	}
	c.Pause()
	c.closed = true
	c.frameImg = nil
	c.frameBuf = nil
}

func (c *Comparator) requestFrame() {
	if c.framePending {
		return
	}
	c.framePending = true
	c.sched.RequestAnimationFrame(c.drawFrame)
}

// drawFrame is the draw loop body. Whether to continue is decided after
// the frame is drawn, so one frame may still render after Pause.
func (c *Comparator) drawFrame(now time.Time) {
	c.framePending = false
	if c.closed {
		return
	}
	c.composite()
	if c.opts.afterDraw != nil {
		c.opts.afterDraw(now)
	}
	if c.playing {
		c.requestFrame()
	}
}

// composite draws one frame. Sizes are re-read every time since the
// surface can be resized between frames.
func (c *Comparator) composite() {
	vw, vh := c.src.VideoSize()
	frameW, frameH := LogicalFrame(vw, vh)
	sw, sh := c.surf.Size()
	surfW, surfH := float64(sw), float64(sh)
	position := c.position
	buf := c.frameBuffer(c.src.CurrentFrame())

	err := c.surf.Draw(func(dc *gg.Context) {
		dc.Clear()
		if buf != nil && frameW >= 1 && frameH >= 1 {
			packed := image.Rect(0, 0, vw, vh)

			// Variant A everywhere.
			c.blit(dc, buf, image.Rect(0, 0, int(frameW), vh).Intersect(packed), 0, surfW, surfH)

			// Variant B over the column right of the split.
			split := ComputeSplit(position, surfW, frameW)
			src := image.Rect(
				int(math.Round(frameW+split.SrcStart)), 0,
				int(math.Round(frameW+split.SrcStart+split.SrcWidth)), vh,
			).Intersect(packed)
			c.blit(dc, buf, src, split.ColStart, split.ColWidth, surfH)
		}
		c.drawIndicator(dc, position, surfW, surfH)
		c.labels.draw(dc, surfW, surfH)
	})
	if err != nil {
		Logger().Warn("surface draw failed", "error", err)
	}
}

// blit scales src into the column starting at x. Empty source or
// destination areas draw nothing.
func (c *Comparator) blit(dc *gg.Context, buf *gg.ImageBuf, src image.Rectangle, x, width, height float64) {
	if src.Empty() || width < 1 || height < 1 {
		return
	}
	dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:             x,
		Y:             0,
		DstWidth:      width,
		DstHeight:     height,
		SrcRect:       &src,
		Interpolation: c.opts.interpolation,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

// drawIndicator paints the handle circle, the divider and the arrow glyph.
func (c *Comparator) drawIndicator(dc *gg.Context, position, surfW, surfH float64) {
	if surfW <= 0 || surfH <= 0 {
		return
	}
	s := c.opts.style
	x := Clamp(surfW*position, 0, surfW)
	h := HandleGeometry(x, surfH)

	dc.SetRGBA(s.HandleColor.R, s.HandleColor.G, s.HandleColor.B, s.HandleColor.A)
	dc.DrawCircle(h.X, h.Y, h.Radius)
	_ = dc.Fill()

	dc.SetRGBA(s.DividerColor.R, s.DividerColor.G, s.DividerColor.B, s.DividerColor.A)
	dc.SetLineWidth(s.DividerWidth)
	dc.MoveTo(x, 0)
	dc.LineTo(x, surfH)
	_ = dc.Stroke()

	pts := h.ArrowPolygon()
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.SetRGBA(s.ArrowColor.R, s.ArrowColor.G, s.ArrowColor.B, s.ArrowColor.A)
	_ = dc.Fill()
}

// frameBuffer converts the media frame for blitting, reusing the previous
// conversion while the source keeps returning the same image.
func (c *Comparator) frameBuffer(frame image.Image) *gg.ImageBuf {
	if frame == nil {
		return nil
	}
	if c.frameBuf != nil && sameImage(frame, c.frameImg) {
		return c.frameBuf
	}
	c.frameImg = frame
	c.frameBuf = gg.ImageBufFromImage(frame)
	return c.frameBuf
}

// sameImage compares pointer-backed images by identity. Other image
// values are never treated as equal.
func sameImage(a, b image.Image) bool {
	if a == nil || b == nil {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != reflect.Pointer || vb.Kind() != reflect.Pointer {
		return false
	}
	return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
}
