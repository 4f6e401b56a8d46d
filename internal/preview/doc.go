// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package preview serves a live comparator preview over HTTP.
//
// The page shows the composited surface as an MJPEG stream and forwards
// pointer, touch, visibility and resize events back over a websocket.
// Events are posted to the display loop, so the comparator only ever runs
// on the loop goroutine. Publish is installed as the comparator's
// after-draw hook and encodes each drawn frame for the HTTP side.
package preview
