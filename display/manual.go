// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"sync"
	"time"
)

// Manual is a scheduler driven by explicit Tick calls with a virtual
// clock. It renders deterministically, independent of wall time.
type Manual struct {
	q        queue
	interval time.Duration

	mu  sync.Mutex
	now time.Time
}

// NewManual creates a scheduler whose clock starts at start and advances
// by interval on every Tick.
func NewManual(start time.Time, interval time.Duration) *Manual {
	return &Manual{now: start, interval: interval}
}

// Post queues fn for the next Tick or Flush.
func (m *Manual) Post(fn func()) {
	m.q.post(fn)
}

// RequestAnimationFrame queues fn for the next Tick.
func (m *Manual) RequestAnimationFrame(fn func(now time.Time)) {
	m.q.requestFrame(fn)
}

// Now returns the virtual time. It is suitable as a media clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Flush runs posted tasks without a refresh.
func (m *Manual) Flush() {
	m.q.drainTasks()
}

// Tick advances the clock by one interval, runs posted tasks and then the
// frame callbacks that were pending. It returns the number of frame
// callbacks run.
func (m *Manual) Tick() int {
	m.mu.Lock()
	m.now = m.now.Add(m.interval)
	now := m.now
	m.mu.Unlock()

	m.q.drainTasks()
	return m.q.runFrames(now)
}

// Pending returns the number of frame callbacks waiting for a Tick.
func (m *Manual) Pending() int {
	_, frames := m.q.pending()
	return frames
}
