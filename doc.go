// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggcompare renders before/after video comparisons with gg.
//
// # Overview
//
// A packed video holds two variants side by side: the left half of every
// frame is variant A, the right half variant B. A [Comparator] draws the
// current frame onto a [Surface] so that variant A shows left of a vertical
// split line and variant B right of it. The split follows the pointer.
//
// # Quick Start
//
//	cv, _ := canvas.New(1, 1)
//	src, _ := media.LoadDir("frames/", 30)
//	loop := display.NewLoop(60)
//	box := &ggcompare.ContainerBox{W: 960}
//
//	cmp := ggcompare.New(src, cv, box, loop,
//	    ggcompare.WithLabels("before", "after"),
//	)
//	loop.Post(cmp.PlayWhenReady)
//	_ = loop.Run(ctx)
//
// # Threading
//
// The comparator has no locks. Like a widget on a web page it lives on one
// thread of control, the [Scheduler]: event handlers and the draw loop run
// there one at a time. The draw loop requests one animation frame per
// display refresh while playing and stops rescheduling once paused.
//
// # Geometry
//
// The split position is stored unclamped. Each coordinate derived from it
// is clamped in its own space: destination columns against the surface
// width, source columns against the logical frame width (half the packed
// width). See [ComputeSplit].
//
// # Errors
//
// Rendering is best effort. Missing dimensions, empty surfaces and
// out-of-range positions produce empty draws, never errors. Failures of
// collaborators are logged through [Logger].
package ggcompare
