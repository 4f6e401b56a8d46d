// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggcompare"
	"github.com/gogpu/ggcompare/canvas"
	"github.com/gogpu/ggcompare/display"
	"github.com/gogpu/ggcompare/internal/config"
	"github.com/gogpu/ggcompare/media"
)

type renderOptions struct {
	output   string
	frames   int
	width    float64
	position float64
	sweep    bool
	format   string
	labelA   string
	labelB   string
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render composited comparison frames to image files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyRenderFlags(cmd, cfg, opts)
			if err := cfg.Validate(); err != nil {
				return err
			}
			written, err := renderFrames(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d frames to %s\n", written, cfg.Render.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "Output directory (default render.output_dir)")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "Number of frames to render (default render.frames)")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "Container width in pixels (default render.container_width)")
	cmd.Flags().Float64Var(&opts.position, "position", 0, "Split position between 0 and 1 (default render.position)")
	cmd.Flags().BoolVar(&opts.sweep, "sweep", false, "Move the split across the surface while rendering")
	cmd.Flags().StringVar(&opts.format, "format", "", "Image format: png or jpeg (default render.format)")
	cmd.Flags().StringVar(&opts.labelA, "label-a", "", "Caption for the left variant")
	cmd.Flags().StringVar(&opts.labelB, "label-b", "", "Caption for the right variant")
	return cmd
}

func applyRenderFlags(cmd *cobra.Command, cfg *config.Config, opts renderOptions) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		if out, err := config.ExpandPath(opts.output); err == nil {
			cfg.Render.OutputDir = out
		}
	}
	if flags.Changed("frames") {
		cfg.Render.Frames = opts.frames
	}
	if flags.Changed("width") {
		cfg.Render.ContainerWidth = opts.width
	}
	if flags.Changed("position") {
		cfg.Render.Position = opts.position
	}
	if flags.Changed("sweep") {
		cfg.Render.Sweep = opts.sweep
	}
	if flags.Changed("format") {
		cfg.Render.Format = opts.format
		if cfg.Render.Format == "jpg" {
			cfg.Render.Format = "jpeg"
		}
	}
	if flags.Changed("label-a") {
		cfg.Style.LabelA = opts.labelA
	}
	if flags.Changed("label-b") {
		cfg.Style.LabelB = opts.labelB
	}
}

// renderFrames drives a comparator with a manual scheduler and saves every
// drawn frame.
func renderFrames(cmd *cobra.Command, cfg *config.Config, input string) (int, error) {
	interval := time.Duration(float64(time.Second) / cfg.Render.FPS)
	sched := display.NewManual(time.Unix(0, 0), interval)

	src, err := openInput(cmd.Context(), cfg, input, false,
		media.WithClock(sched.Now), media.WithDispatch(sched.Post))
	if err != nil {
		return 0, err
	}
	defer src.Close()

	surf, err := canvas.New(1, 1)
	if err != nil {
		return 0, err
	}
	defer surf.Close()

	if err := os.MkdirAll(cfg.Render.OutputDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	var (
		written  int
		writeErr error
	)
	save := func(time.Time) {
		if writeErr != nil {
			return
		}
		path := filepath.Join(cfg.Render.OutputDir, fmt.Sprintf("frame_%05d.%s", written, extension(cfg.Render.Format)))
		if writeErr = writeImage(surf, path, cfg.Render.Format, cfg.Render.JPEGQuality); writeErr == nil {
			written++
		}
	}

	opts, err := cfg.ComparatorOptions()
	if err != nil {
		return 0, err
	}
	opts = append(opts, ggcompare.WithAfterDraw(save))

	box := &ggcompare.ContainerBox{W: cfg.Render.ContainerWidth}
	cmp := ggcompare.New(src, surf, box, sched, opts...)
	defer cmp.Close()
	cmp.SetSplitPosition(cfg.Render.Position)

	sched.Post(cmp.PlayWhenReady)
	sched.Flush()
	if !cmp.IsPlaying() {
		return 0, fmt.Errorf("input not ready: %s", src.ReadyState())
	}

	width, height := surf.Size()
	bounds := ggcompare.Rect{Width: float64(width), Height: float64(height)}
	for i := 0; i < cfg.Render.Frames; i++ {
		if cfg.Render.Sweep {
			cmp.HandlePointerMove(ggcompare.PointerEvent{PageX: sweepX(i, cfg.Render.Frames, bounds.Width)}, bounds)
		}
		if sched.Tick() == 0 {
			break
		}
		if writeErr != nil {
			return written, writeErr
		}
	}
	if written == 0 {
		return 0, errors.New("render: no frames drawn")
	}
	return written, nil
}

// sweepX moves the pointer left to right across the surface over n frames.
func sweepX(i, n int, width float64) float64 {
	if n <= 1 {
		return width / 2
	}
	return width * float64(i) / float64(n-1)
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return "png"
}

func writeImage(surf *canvas.Canvas, path, format string, quality int) error {
	if format != "jpeg" {
		return surf.SavePNG(path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := surf.EncodeJPEG(f, quality); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
