// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggcompare"
	"github.com/gogpu/ggcompare/internal/config"
	"github.com/gogpu/ggcompare/media"
	"github.com/gogpu/ggcompare/media/ffprobe"
)

type probeInfo struct {
	Input        string          `json:"input"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	FrameRate    float64         `json:"frame_rate"`
	Frames       int             `json:"frames"`
	Duration     float64         `json:"duration_seconds"`
	VideoStreams int             `json:"video_streams"`
	FFprobe      json.RawMessage `json:"ffprobe,omitempty"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var width float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <input>",
		Short: "Show packed frame geometry for an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("width") {
				width = cfg.Render.ContainerWidth
			}
			info, err := probeInput(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), probeTable(info, width))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&width, "width", "w", 0, "Container width used for the surface size (default render.container_width)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the probe result as JSON, including the raw ffprobe output for media files")
	return cmd
}

func probeInput(cmd *cobra.Command, cfg *config.Config, path string) (probeInfo, error) {
	dir, err := isDir(path)
	if err != nil {
		return probeInfo{}, err
	}
	if dir {
		seq, err := media.LoadDir(path, cfg.Render.FPS)
		if err != nil {
			return probeInfo{}, err
		}
		w, h := seq.VideoSize()
		return probeInfo{
			Input:        path,
			Width:        w,
			Height:       h,
			FrameRate:    seq.FrameRate(),
			Frames:       seq.Total(),
			Duration:     float64(seq.Total()) / seq.FrameRate(),
			VideoStreams: 1,
		}, nil
	}

	result, err := ffprobe.Inspect(cmd.Context(), cfg.Media.FFprobe, path)
	if err != nil {
		return probeInfo{}, err
	}
	stream, ok := result.VideoStream()
	if !ok {
		return probeInfo{}, fmt.Errorf("%w: %s", media.ErrNoVideoStream, path)
	}
	return probeInfo{
		Input:        path,
		Width:        stream.Width,
		Height:       stream.Height,
		FrameRate:    stream.FrameRate(),
		Frames:       stream.FrameCount(),
		Duration:     result.DurationSeconds(),
		VideoStreams: result.VideoStreamCount(),
		FFprobe:      result.RawJSON(),
	}, nil
}

func probeTable(info probeInfo, containerWidth float64) string {
	frameW, frameH := ggcompare.LogicalFrame(info.Width, info.Height)
	surface := "n/a"
	if w, h, ok := ggcompare.FitSurface(containerWidth, info.Width, info.Height); ok {
		surface = fmt.Sprintf("%dx%d", w, h)
	}
	rows := [][]string{
		{"Input", info.Input},
		{"Packed size", fmt.Sprintf("%dx%d", info.Width, info.Height)},
		{"Logical frame", fmt.Sprintf("%gx%g", frameW, frameH)},
		{"Surface @ " + strconv.FormatFloat(containerWidth, 'f', -1, 64), surface},
		{"Frame rate", strconv.FormatFloat(info.FrameRate, 'f', 3, 64)},
		{"Frames", strconv.Itoa(info.Frames)},
		{"Duration", strconv.FormatFloat(info.Duration, 'f', 3, 64) + "s"},
		{"Video streams", strconv.Itoa(info.VideoStreams)},
	}
	return renderTable([]string{"Property", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
