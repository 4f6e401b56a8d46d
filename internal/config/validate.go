// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/ggcompare"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateStyle(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validatePreview(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRender() error {
	r := c.Render
	if r.Format != formatPNG && r.Format != formatJPEG {
		return fmt.Errorf("render.format must be %q or %q, got %q", formatPNG, formatJPEG, r.Format)
	}
	if r.JPEGQuality < 1 || r.JPEGQuality > 100 {
		return errors.New("render.jpeg_quality must be between 1 and 100")
	}
	if r.Frames < 1 {
		return errors.New("render.frames must be positive")
	}
	if !(r.ContainerWidth >= 1) || math.IsInf(r.ContainerWidth, 0) {
		return errors.New("render.container_width must be at least 1")
	}
	if !(r.FPS > 0) || math.IsInf(r.FPS, 0) {
		return errors.New("render.fps must be positive")
	}
	if math.IsNaN(r.Position) {
		return errors.New("render.position must be a number")
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if !(c.Playback.Rate > 0) || math.IsInf(c.Playback.Rate, 0) {
		return errors.New("playback.rate must be positive")
	}
	if _, ok := ggcompare.ParseReadyState(c.Playback.ReadyThreshold); !ok {
		return fmt.Errorf("playback.ready_threshold must be one of nothing, metadata, current, future, enough; got %q", c.Playback.ReadyThreshold)
	}
	return nil
}

func (c *Config) validateStyle() error {
	if c.Style.Theme != themeLight && c.Style.Theme != themeDark {
		return fmt.Errorf("style.theme must be %q or %q, got %q", themeLight, themeDark, c.Style.Theme)
	}
	if c.Style.LabelSize < 0 {
		return errors.New("style.label_size must not be negative")
	}
	if _, err := c.ComparatorStyle(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.BufferFrames < 1 {
		return errors.New("media.buffer_frames must be positive")
	}
	if c.Media.MaxFrames < 0 {
		return errors.New("media.max_frames must not be negative")
	}
	return nil
}

func (c *Config) validatePreview() error {
	if c.Preview.Addr == "" {
		return errors.New("preview.addr must be set")
	}
	if c.Preview.RefreshRate < 1 || c.Preview.RefreshRate > 240 {
		return errors.New("preview.refresh_rate must be between 1 and 240")
	}
	if c.Preview.JPEGQuality < 1 || c.Preview.JPEGQuality > 100 {
		return errors.New("preview.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case logFormatAuto, logFormatText, logFormatJSON:
	default:
		return fmt.Errorf("logging.format must be auto, text or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
