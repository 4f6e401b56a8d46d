// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gogpu/ggcompare"
)

// DefaultRefreshRate is the refresh rate used when none is given.
const DefaultRefreshRate = 60

// ErrLoopRunning is returned when Run is called on a loop that is already
// running.
var ErrLoopRunning = errors.New("display: loop already running")

// Loop is a wall-clock scheduler. Post and RequestAnimationFrame may be
// called from any goroutine; the work runs on the goroutine calling Run.
type Loop struct {
	interval time.Duration
	q        queue
	wake     chan struct{}
	running  atomic.Bool
}

// NewLoop creates a loop ticking refreshRate times per second.
// Non-positive rates use DefaultRefreshRate.
func NewLoop(refreshRate int) *Loop {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}
	return &Loop{
		interval: time.Second / time.Duration(refreshRate),
		wake:     make(chan struct{}, 1),
	}
}

// Interval returns the time between refreshes.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Post queues fn to run on the loop goroutine. Posted tasks run promptly,
// without waiting for the next refresh.
func (l *Loop) Post(fn func()) {
	l.q.post(fn)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RequestAnimationFrame queues fn for the next refresh.
func (l *Loop) RequestAnimationFrame(fn func(now time.Time)) {
	l.q.requestFrame(fn)
}

// Run processes tasks and refreshes until ctx is done. It returns
// ctx.Err() on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	ggcompare.Logger().Debug("display loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			ggcompare.Logger().Debug("display loop stopped")
			return ctx.Err()
		case <-l.wake:
			l.q.drainTasks()
		case now := <-ticker.C:
			l.q.drainTasks()
			l.q.runFrames(now)
		}
	}
}
