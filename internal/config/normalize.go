// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeRender(); err != nil {
		return err
	}
	c.normalizeStyle()
	c.normalizeMedia()
	c.normalizeLogging()
	c.Playback.ReadyThreshold = strings.ToLower(strings.TrimSpace(c.Playback.ReadyThreshold))
	if c.Playback.ReadyThreshold == "" {
		c.Playback.ReadyThreshold = defaultReadyThreshold
	}
	c.Preview.Addr = strings.TrimSpace(c.Preview.Addr)
	return nil
}

func (c *Config) normalizeRender() error {
	r := &c.Render
	if strings.TrimSpace(r.OutputDir) == "" {
		r.OutputDir = defaultOutputDir
	}
	var err error
	if r.OutputDir, err = expandPath(strings.TrimSpace(r.OutputDir)); err != nil {
		return fmt.Errorf("render.output_dir: %w", err)
	}
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	switch r.Format {
	case "":
		r.Format = defaultRenderFormat
	case "jpg":
		r.Format = formatJPEG
	}
	return nil
}

func (c *Config) normalizeStyle() {
	s := &c.Style
	s.Theme = strings.ToLower(strings.TrimSpace(s.Theme))
	if s.Theme == "" {
		s.Theme = defaultTheme
	}
	s.HandleColor = strings.TrimSpace(s.HandleColor)
	s.DividerColor = strings.TrimSpace(s.DividerColor)
	s.ArrowColor = strings.TrimSpace(s.ArrowColor)
}

func (c *Config) normalizeMedia() {
	m := &c.Media
	m.FFmpeg = strings.TrimSpace(m.FFmpeg)
	if m.FFmpeg == "" {
		m.FFmpeg = defaultFFmpeg
	}
	m.FFprobe = strings.TrimSpace(m.FFprobe)
	if m.FFprobe == "" {
		m.FFprobe = defaultFFprobe
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
