// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"sync"
	"time"
)

// queue holds posted tasks and frame callbacks. It is shared by Loop and
// Manual and is safe for concurrent use.
type queue struct {
	mu     sync.Mutex
	tasks  []func()
	frames []func(time.Time)
}

func (q *queue) post(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

func (q *queue) requestFrame(fn func(time.Time)) {
	q.mu.Lock()
	q.frames = append(q.frames, fn)
	q.mu.Unlock()
}

// drainTasks runs posted tasks until none remain, including tasks posted
// by the tasks themselves.
func (q *queue) drainTasks() int {
	n := 0
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mu.Unlock()
		if len(tasks) == 0 {
			return n
		}
		for _, fn := range tasks {
			fn()
			n++
		}
	}
}

// runFrames runs the frame callbacks requested before the call. Callbacks
// requested meanwhile are kept for the next refresh.
func (q *queue) runFrames(now time.Time) int {
	q.mu.Lock()
	frames := q.frames
	q.frames = nil
	q.mu.Unlock()
	for _, fn := range frames {
		fn(now)
	}
	return len(frames)
}

func (q *queue) pending() (tasks, frames int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks), len(q.frames)
}
