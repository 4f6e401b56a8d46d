// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/gg"
)

type demoOptions struct {
	output string
	frames int
	width  int
	height int
}

func newDemoCommand() *cobra.Command {
	opts := demoOptions{output: "demo-frames", frames: 30, width: 640, height: 240}

	cmd := &cobra.Command{
		Use:         "demo",
		Short:       "Write a synthetic packed before/after frame sequence",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeDemoFrames(opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d demo frames (%dx%d) to %s\n", opts.frames, opts.width, opts.height, opts.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.output, "out", "o", opts.output, "Output directory")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", opts.frames, "Number of frames")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "Packed frame width (both variants)")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "Frame height")
	return cmd
}

func writeDemoFrames(opts demoOptions) error {
	if opts.frames < 1 {
		return errors.New("demo: frames must be positive")
	}
	if opts.width < 2 || opts.width%2 != 0 || opts.height < 1 {
		return fmt.Errorf("demo: invalid packed size %dx%d (width must be even)", opts.width, opts.height)
	}
	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	half := float64(opts.width / 2)
	h := float64(opts.height)
	for i := 0; i < opts.frames; i++ {
		t := float64(i) / float64(opts.frames)
		dc := gg.NewContext(opts.width, opts.height)
		drawDemoScene(dc, 0, half, h, t, false)
		drawDemoScene(dc, half, half, h, t, true)
		err := dc.SavePNG(filepath.Join(opts.output, fmt.Sprintf("frame_%05d.png", i)))
		_ = dc.Close()
		if err != nil {
			return fmt.Errorf("save demo frame %d: %w", i, err)
		}
	}
	return nil
}

// drawDemoScene draws one variant into the column [x, x+w). The graded
// variant uses a warmer palette so the split is easy to see.
func drawDemoScene(dc *gg.Context, x, w, h, t float64, graded bool) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(x, 0)

	drawGradientBackground(dc, w, h, graded)
	drawSpinner(dc, w/2, h/2, math.Min(w, h)/5, t*2*math.Pi, graded)
	drawStar(dc, w*0.2, h*0.25, math.Min(w, h)/10, graded)
}

func drawGradientBackground(dc *gg.Context, w, h float64, graded bool) {
	steps := 50
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps)
		r, g, b := 0.1+t*0.4, 0.2+t*0.3, 0.4+t*0.2
		if graded {
			r, b = b, r
		}
		dc.SetRGB(r, g, b)
		dc.DrawRectangle(0, h*t, w, h/float64(steps)+1)
		_ = dc.Fill()
	}
}

func drawSpinner(dc *gg.Context, cx, cy, size, angle float64, graded bool) {
	for i := 0; i < 8; i++ {
		dc.Push()
		dc.Translate(cx, cy)
		dc.Rotate(angle + float64(i)*math.Pi/4)

		hue := float64(i) * 45
		if graded {
			hue = math.Mod(hue+180, 360)
		}
		c := gg.HSL(hue, 0.8, 0.6)
		dc.SetRGBA(c.R, c.G, c.B, 0.8)
		dc.DrawRectangle(size*0.6, -size/6, size/2, size/3)
		_ = dc.Fill()
		dc.Pop()
	}
}

func drawStar(dc *gg.Context, cx, cy, outerR float64, graded bool) {
	if graded {
		dc.SetRGB(1, 0.5, 0)
	} else {
		dc.SetRGB(1, 1, 0)
	}
	points := 5
	innerR := outerR / 2
	for i := 0; i < points*2; i++ {
		angle := float64(i) * math.Pi / float64(points)
		r := outerR
		if i%2 == 1 {
			r = innerR
		}
		px := cx + r*math.Cos(angle-math.Pi/2)
		py := cy + r*math.Sin(angle-math.Pi/2)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.ClosePath()
	_ = dc.Fill()
}
