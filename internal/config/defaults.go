// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"github.com/gogpu/ggcompare"
	"github.com/gogpu/ggcompare/display"
	"github.com/gogpu/ggcompare/media"
)

const (
	defaultConfigPath     = "~/.config/ggcompare/config.toml"
	projectConfigName     = "ggcompare.toml"
	defaultOutputDir      = "frames"
	defaultRenderFormat   = formatPNG
	defaultJPEGQuality    = 85
	defaultRenderFrames   = 60
	defaultContainerWidth = 640
	defaultRenderFPS      = 30
	defaultReadyThreshold = "future"
	defaultTheme          = themeLight
	defaultFFmpeg         = "ffmpeg"
	defaultFFprobe        = "ffprobe"
	defaultPreviewAddr    = "127.0.0.1:8787"
	defaultLogFormat      = logFormatAuto
	defaultLogLevel       = "info"
)

const (
	formatPNG  = "png"
	formatJPEG = "jpeg"

	themeLight = "light"
	themeDark  = "dark"

	logFormatAuto = "auto"
	logFormatText = "text"
	logFormatJSON = "json"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Render: Render{
			OutputDir:      defaultOutputDir,
			Format:         defaultRenderFormat,
			JPEGQuality:    defaultJPEGQuality,
			Frames:         defaultRenderFrames,
			ContainerWidth: defaultContainerWidth,
			FPS:            defaultRenderFPS,
			Position:       ggcompare.DefaultSplitPosition,
		},
		Playback: Playback{
			Rate:           ggcompare.DefaultPlaybackRate,
			ReadyThreshold: defaultReadyThreshold,
		},
		Style: Style{
			Theme:        defaultTheme,
			DividerWidth: ggcompare.DefaultStyle().DividerWidth,
			LabelSize:    ggcompare.DefaultLabelSize,
		},
		Media: Media{
			FFmpeg:       defaultFFmpeg,
			FFprobe:      defaultFFprobe,
			BufferFrames: media.DefaultBufferTarget,
		},
		Preview: Preview{
			Addr:        defaultPreviewAddr,
			RefreshRate: display.DefaultRefreshRate,
			JPEGQuality: defaultJPEGQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
