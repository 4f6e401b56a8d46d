// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package canvas provides the CPU raster surface comparators draw on.
//
// Canvas wraps a gg.Context and tracks whether it changed since the last
// time its pixels were read:
//
//	gg.Context (draw) -> Pixmap (CPU) -> Snapshot / PNG / JPEG
//
// # Usage
//
//	cv, err := canvas.New(640, 360)
//	if err != nil {
//	    return err
//	}
//	defer cv.Close()
//
//	_ = cv.Draw(func(dc *gg.Context) {
//	    dc.SetRGB(1, 0, 0)
//	    dc.DrawCircle(320, 180, 100)
//	    _ = dc.Fill()
//	})
//	_ = cv.SavePNG("frame.png")
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use. Keep it on the comparator's
// scheduler thread, or use external synchronization.
package canvas
