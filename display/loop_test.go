// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewLoopDefaultRate(t *testing.T) {
	l := NewLoop(0)
	if l.Interval() != time.Second/DefaultRefreshRate {
		t.Errorf("Interval() = %v, want %v", l.Interval(), time.Second/DefaultRefreshRate)
	}
	if NewLoop(100).Interval() != 10*time.Millisecond {
		t.Errorf("NewLoop(100).Interval() = %v, want 10ms", NewLoop(100).Interval())
	}
}

func TestLoopRunsPostedTasks(t *testing.T) {
	l := NewLoop(60)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	l.Post(func() { close(done) })

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("posted task did not run")
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestLoopAnimationFrames(t *testing.T) {
	l := NewLoop(200)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var frames atomic.Int32
	reached := make(chan struct{})
	var draw func(time.Time)
	draw = func(time.Time) {
		if frames.Add(1) == 3 {
			close(reached)
			return
		}
		l.RequestAnimationFrame(draw)
	}
	l.RequestAnimationFrame(draw)

	go func() { _ = l.Run(ctx) }()

	select {
	case <-reached:
	case <-ctx.Done():
		t.Fatalf("only %d frames ran", frames.Load())
	}
}

func TestLoopRunTwice(t *testing.T) {
	l := NewLoop(60)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	l.Post(func() { close(started) })
	go func() { _ = l.Run(ctx) }()
	<-started

	if err := l.Run(ctx); !errors.Is(err, ErrLoopRunning) {
		t.Errorf("second Run() = %v, want ErrLoopRunning", err)
	}
}
