// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gogpu/ggcompare/internal/config"
	"github.com/gogpu/ggcompare/media"
)

// source is a decoded input plus whatever must be released with it.
type source struct {
	*media.Sequence
	close func() error
}

func (s *source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("input: %w", err)
	}
	return info.IsDir(), nil
}

func mediaOptions(cfg *config.Config, seqOpts ...media.SequenceOption) []media.FFmpegOption {
	seqOpts = append([]media.SequenceOption{
		media.WithBufferTarget(cfg.Media.BufferFrames),
		media.WithLoop(cfg.Media.Loop),
	}, seqOpts...)
	return []media.FFmpegOption{
		media.WithFFmpegBinary(cfg.Media.FFmpeg),
		media.WithFFprobeBinary(cfg.Media.FFprobe),
		media.WithMaxFrames(cfg.Media.MaxFrames),
		media.WithSequenceOptions(seqOpts...),
	}
}

// openInput loads a frame directory or a video file. Video files are
// decoded completely unless stream is set, in which case decoding runs in
// the background while the returned sequence fills.
func openInput(ctx context.Context, cfg *config.Config, path string, stream bool, seqOpts ...media.SequenceOption) (*source, error) {
	dir, err := isDir(path)
	if err != nil {
		return nil, err
	}
	if dir {
		opts := append([]media.SequenceOption{
			media.WithBufferTarget(cfg.Media.BufferFrames),
			media.WithLoop(cfg.Media.Loop),
		}, seqOpts...)
		seq, err := media.LoadDir(path, cfg.Render.FPS, opts...)
		if err != nil {
			return nil, err
		}
		return &source{Sequence: seq}, nil
	}

	if stream {
		src, err := media.OpenFFmpeg(ctx, path, mediaOptions(cfg, seqOpts...)...)
		if err != nil {
			return nil, err
		}
		return &source{Sequence: src.Sequence, close: src.Close}, nil
	}

	seq, err := media.DecodeFile(ctx, path, mediaOptions(cfg, seqOpts...)...)
	if err != nil {
		return nil, err
	}
	return &source{Sequence: seq}, nil
}
