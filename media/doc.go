// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package media provides ggcompare.MediaSource implementations.
//
// Sequence is an in-memory packed frame sequence with a playback clock.
// Frames may be appended while it plays; its readiness level follows how
// many frames are buffered past the playhead. LoadDir fills a Sequence from
// image files. FFmpegSource streams frames decoded by ffmpeg into a
// Sequence on a background goroutine, and DecodeFile does the same
// synchronously.
//
// All types here are safe for concurrent use. Readiness listeners run on
// the goroutine that changed the level unless WithDispatch says otherwise.
package media
