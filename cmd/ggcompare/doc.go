// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command ggcompare renders and previews split-screen video comparisons.
//
// Inputs are packed videos: each frame holds variant A in its left half and
// variant B in its right half. An input is either a video file, decoded
// with ffmpeg, or a directory of frame images.
//
//	ggcompare demo --out frames/           # synthesize a packed input
//	ggcompare probe frames/                # print sizes and frame rate
//	ggcompare render frames/ --sweep       # write composited frames
//	ggcompare preview clip.mp4             # serve a live preview
//	ggcompare config init                  # write a sample config
package main
