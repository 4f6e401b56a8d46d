// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package media

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gogpu/ggcompare"
)

// DefaultBufferTarget is the number of frames at or past the playhead that
// count as enough data to play through.
const DefaultBufferTarget = 30

var (
	// ErrNoFrames is returned when a source has no frames to play.
	ErrNoFrames = errors.New("media: no frames")

	// ErrFrameSizeMismatch is returned when an appended frame differs in
	// size from the sequence.
	ErrFrameSizeMismatch = errors.New("media: frame size mismatch")

	// ErrInvalidFrameRate is returned for non-positive frame rates.
	ErrInvalidFrameRate = errors.New("media: invalid frame rate")
)

// SequenceOption configures a Sequence.
type SequenceOption func(*sequenceOptions)

type sequenceOptions struct {
	now          func() time.Time
	loop         bool
	bufferTarget int
	dispatch     func(func())
}

// WithClock sets the clock that drives the playhead.
func WithClock(now func() time.Time) SequenceOption {
	return func(o *sequenceOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLoop restarts playback from the first frame once a finished
// sequence reaches its end.
func WithLoop(loop bool) SequenceOption {
	return func(o *sequenceOptions) {
		o.loop = loop
	}
}

// WithBufferTarget sets how many buffered frames count as enough data.
func WithBufferTarget(frames int) SequenceOption {
	return func(o *sequenceOptions) {
		if frames > 0 {
			o.bufferTarget = frames
		}
	}
}

// WithDispatch sets how readiness listeners are invoked, for example
// through a scheduler's Post.
func WithDispatch(dispatch func(func())) SequenceOption {
	return func(o *sequenceOptions) {
		if dispatch != nil {
			o.dispatch = dispatch
		}
	}
}

// Sequence is a packed frame sequence played against a clock.
//
// Unless it loops, a Sequence releases frames once the playhead has passed
// them, so only the frames at or ahead of the playhead stay in memory.
type Sequence struct {
	mu   sync.Mutex
	opts sequenceOptions
	fps  float64

	width, height int
	frames        []image.Image
	offset        int // index of frames[0]
	finished      bool

	rate    float64
	playing bool
	anchor  time.Time
	base    time.Duration

	state     ggcompare.ReadyState
	listeners map[uint64]func(ggcompare.ReadyState)
	nextID    uint64
}

// NewSequence creates an empty sequence played at fps frames per second.
func NewSequence(fps float64, opts ...SequenceOption) (*Sequence, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrameRate, fps)
	}
	o := sequenceOptions{
		now:          time.Now,
		bufferTarget: DefaultBufferTarget,
		dispatch:     func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Sequence{
		opts:      o,
		fps:       fps,
		rate:      1,
		listeners: make(map[uint64]func(ggcompare.ReadyState)),
	}, nil
}

// FrameRate returns the frames per second the sequence plays at.
func (s *Sequence) FrameRate() float64 {
	return s.fps
}

// SetVideoSize declares the packed frame size ahead of the first frame.
func (s *Sequence) SetVideoSize(width, height int) {
	s.mu.Lock()
	if s.width == 0 && s.height == 0 {
		s.width, s.height = width, height
	}
	s.mu.Unlock()
	s.refresh()
}

// Append adds a frame at the end of the sequence.
func (s *Sequence) Append(img image.Image) error {
	b := img.Bounds()
	s.mu.Lock()
	if s.width == 0 && s.height == 0 {
		s.width, s.height = b.Dx(), b.Dy()
	}
	if b.Dx() != s.width || b.Dy() != s.height {
		w, h := s.width, s.height
		s.mu.Unlock()
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSizeMismatch, b.Dx(), b.Dy(), w, h)
	}
	s.frames = append(s.frames, img)
	s.evictLocked()
	s.mu.Unlock()
	s.refresh()
	return nil
}

// Finish marks the sequence complete; no more frames will be appended.
func (s *Sequence) Finish() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	s.refresh()
}

// Finished reports whether Finish was called.
func (s *Sequence) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Len returns the number of frames held in memory.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Total returns the number of frames appended, including released ones.
func (s *Sequence) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset + len(s.frames)
}

// Play starts or resumes the playhead.
func (s *Sequence) Play() error {
	s.mu.Lock()
	if s.finished && s.offset+len(s.frames) == 0 {
		s.mu.Unlock()
		return ErrNoFrames
	}
	if !s.playing {
		s.anchor = s.opts.now()
		s.playing = true
	}
	s.mu.Unlock()
	return nil
}

// Pause freezes the playhead.
func (s *Sequence) Pause() {
	s.mu.Lock()
	if s.playing {
		s.base = s.mediaTimeLocked()
		s.playing = false
	}
	s.mu.Unlock()
}

// Playing reports whether the playhead is moving.
func (s *Sequence) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// SetPlaybackRate sets the media time multiplier. Non-positive rates are
// ignored.
func (s *Sequence) SetPlaybackRate(rate float64) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	if s.playing {
		s.base = s.mediaTimeLocked()
		s.anchor = s.opts.now()
	}
	s.rate = rate
	s.mu.Unlock()
}

// PlaybackRate returns the media time multiplier.
func (s *Sequence) PlaybackRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// CurrentTime returns the playhead position in media time.
func (s *Sequence) CurrentTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mediaTimeLocked()
}

// VideoSize returns the packed frame size.
func (s *Sequence) VideoSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// CurrentFrame returns the frame at the playhead. Past the last buffered
// frame it keeps returning that frame, as a stalled or ended video does.
func (s *Sequence) CurrentFrame() image.Image {
	s.mu.Lock()
	var frame image.Image
	s.evictLocked()
	if n := len(s.frames); n > 0 {
		frame = s.frames[min(max(s.indexLocked()-s.offset, 0), n-1)]
	}
	s.mu.Unlock()
	s.refresh()
	return frame
}

// ReadyState returns the readiness level at the current playhead.
func (s *Sequence) ReadyState() ggcompare.ReadyState {
	s.refresh()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnReadyStateChange registers fn for readiness changes.
func (s *Sequence) OnReadyStateChange(fn func(ggcompare.ReadyState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Listeners returns the number of registered readiness listeners.
func (s *Sequence) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *Sequence) mediaTimeLocked() time.Duration {
	t := s.base
	if s.playing {
		t += time.Duration(float64(s.opts.now().Sub(s.anchor)) * s.rate)
	}
	return t
}

func (s *Sequence) indexLocked() int {
	idx := int(s.mediaTimeLocked().Seconds() * s.fps)
	if n := len(s.frames); s.opts.loop && s.finished && n > 0 {
		idx %= n
	}
	return idx
}

// evictLocked drops frames behind the playhead. The last frame is kept so
// an ended video still shows it. Looping sequences keep everything.
func (s *Sequence) evictLocked() {
	if s.opts.loop {
		return
	}
	drop := min(s.indexLocked()-s.offset, len(s.frames)-1)
	if drop <= 0 {
		return
	}
	n := copy(s.frames, s.frames[drop:])
	clear(s.frames[n:])
	s.frames = s.frames[:n]
	s.offset += drop
}

func (s *Sequence) computeStateLocked() ggcompare.ReadyState {
	if s.width == 0 || s.height == 0 {
		return ggcompare.HaveNothing
	}
	n := len(s.frames)
	if s.finished {
		if s.offset+n == 0 {
			return ggcompare.HaveMetadata
		}
		return ggcompare.HaveEnoughData
	}
	ahead := s.offset + n - s.indexLocked()
	switch {
	case ahead >= s.opts.bufferTarget:
		return ggcompare.HaveEnoughData
	case ahead >= 2:
		return ggcompare.HaveFutureData
	case ahead == 1:
		return ggcompare.HaveCurrentData
	default:
		return ggcompare.HaveMetadata
	}
}

// refresh recomputes the readiness level and notifies listeners when it
// changed. Listeners are called without the lock held.
func (s *Sequence) refresh() {
	s.mu.Lock()
	next := s.computeStateLocked()
	if next == s.state {
		s.mu.Unlock()
		return
	}
	s.state = next
	fns := make([]func(ggcompare.ReadyState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	dispatch := s.opts.dispatch
	s.mu.Unlock()

	ggcompare.Logger().Debug("media ready state", "ready_state", next)
	dispatch(func() {
		for _, fn := range fns {
			fn(next)
		}
	})
}
