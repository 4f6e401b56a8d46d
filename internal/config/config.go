// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ggcompare"
)

//go:embed sample_config.toml
var sampleConfig string

// Render contains settings for offline rendering.
type Render struct {
	OutputDir      string  `toml:"output_dir"`
	Format         string  `toml:"format"`
	JPEGQuality    int     `toml:"jpeg_quality"`
	Frames         int     `toml:"frames"`
	ContainerWidth float64 `toml:"container_width"`
	FPS            float64 `toml:"fps"`
	Position       float64 `toml:"position"`
	Sweep          bool    `toml:"sweep"`
}

// Playback contains media playback settings.
type Playback struct {
	Rate           float64 `toml:"rate"`
	ReadyThreshold string  `toml:"ready_threshold"`
}

// Style contains indicator and label appearance.
type Style struct {
	Theme        string  `toml:"theme"`
	HandleColor  string  `toml:"handle_color"`
	DividerColor string  `toml:"divider_color"`
	ArrowColor   string  `toml:"arrow_color"`
	DividerWidth float64 `toml:"divider_width"`
	LabelA       string  `toml:"label_a"`
	LabelB       string  `toml:"label_b"`
	LabelSize    float64 `toml:"label_size"`
}

// Media contains decoder settings.
type Media struct {
	FFmpeg       string `toml:"ffmpeg"`
	FFprobe      string `toml:"ffprobe"`
	BufferFrames int    `toml:"buffer_frames"`
	MaxFrames    int    `toml:"max_frames"`
	Loop         bool   `toml:"loop"`
}

// Preview contains live preview server settings.
type Preview struct {
	Addr        string `toml:"addr"`
	RefreshRate int    `toml:"refresh_rate"`
	JPEGQuality int    `toml:"jpeg_quality"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ggcompare.
type Config struct {
	Render   Render   `toml:"render"`
	Playback Playback `toml:"playback"`
	Style    Style    `toml:"style"`
	Media    Media    `toml:"media"`
	Preview  Preview  `toml:"preview"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ComparatorStyle returns the indicator style: the theme's base colors
// with any explicit color overrides applied.
func (c *Config) ComparatorStyle() (ggcompare.Style, error) {
	s, err := ggcompare.ParseStyle(c.Style.HandleColor, c.Style.DividerColor, c.Style.ArrowColor, c.Style.DividerWidth)
	if err != nil {
		return ggcompare.Style{}, fmt.Errorf("style: %w", err)
	}
	if c.Style.Theme == themeDark {
		dark := ggcompare.DarkStyle()
		if c.Style.DividerColor == "" {
			s.DividerColor = dark.DividerColor
		}
		if c.Style.ArrowColor == "" {
			s.ArrowColor = dark.ArrowColor
		}
	}
	return s, nil
}

// ReadyThreshold returns the readiness level PlayWhenReady waits for.
func (c *Config) ReadyThreshold() ggcompare.ReadyState {
	s, ok := ggcompare.ParseReadyState(c.Playback.ReadyThreshold)
	if !ok {
		return ggcompare.HaveFutureData
	}
	return s
}

// ComparatorOptions converts the comparator settings into options.
func (c *Config) ComparatorOptions() ([]ggcompare.Option, error) {
	style, err := c.ComparatorStyle()
	if err != nil {
		return nil, err
	}
	opts := []ggcompare.Option{
		ggcompare.WithStyle(style),
		ggcompare.WithPlaybackRate(c.Playback.Rate),
		ggcompare.WithReadyThreshold(c.ReadyThreshold()),
	}
	if c.Style.LabelA != "" || c.Style.LabelB != "" {
		opts = append(opts,
			ggcompare.WithLabels(c.Style.LabelA, c.Style.LabelB),
			ggcompare.WithLabelSize(c.Style.LabelSize))
	}
	return opts, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
