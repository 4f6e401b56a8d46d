// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package display provides refresh-driven schedulers for comparators.
//
// A scheduler is the single thread of control a comparator lives on. It
// runs two kinds of work, in this order on every refresh:
//
//   - tasks queued with Post (input events, readiness changes)
//   - animation-frame callbacks requested before the refresh began
//
// Callbacks requested while a refresh is running wait for the next one, so
// a self-rescheduling draw routine runs at most once per refresh.
//
// Loop ticks on a wall-clock interval and suits live output. Manual ticks
// only when told to and advances a virtual clock, for offline rendering
// and tests.
package display
