// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/gogpu/ggcompare"
	"github.com/gogpu/ggcompare/media/ffprobe"
)

// DefaultFrameRate is used when ffprobe reports no usable frame rate.
const DefaultFrameRate = 30.0

// ErrNoVideoStream is returned when the input has no video stream.
var ErrNoVideoStream = errors.New("media: no video stream")

// FFmpegOption configures OpenFFmpeg and DecodeFile.
type FFmpegOption func(*ffmpegOptions)

type ffmpegOptions struct {
	ffmpeg    string
	ffprobe   string
	maxFrames int
	seq       []SequenceOption
}

// WithFFmpegBinary sets the ffmpeg executable.
func WithFFmpegBinary(path string) FFmpegOption {
	return func(o *ffmpegOptions) {
		if path != "" {
			o.ffmpeg = path
		}
	}
}

// WithFFprobeBinary sets the ffprobe executable.
func WithFFprobeBinary(path string) FFmpegOption {
	return func(o *ffmpegOptions) {
		if path != "" {
			o.ffprobe = path
		}
	}
}

// WithMaxFrames stops decoding after n frames. Zero means no limit.
func WithMaxFrames(n int) FFmpegOption {
	return func(o *ffmpegOptions) {
		if n >= 0 {
			o.maxFrames = n
		}
	}
}

// WithSequenceOptions passes options to the underlying Sequence.
func WithSequenceOptions(opts ...SequenceOption) FFmpegOption {
	return func(o *ffmpegOptions) {
		o.seq = append(o.seq, opts...)
	}
}

func newFFmpegOptions(opts []FFmpegOption) ffmpegOptions {
	o := ffmpegOptions{ffmpeg: "ffmpeg", ffprobe: "ffprobe"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FFmpegSource is a Sequence fed by an ffmpeg decoder process.
type FFmpegSource struct {
	*Sequence

	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// OpenFFmpeg probes path and starts decoding it in the background. The
// returned source reports HaveMetadata at once and rises as frames buffer.
func OpenFFmpeg(ctx context.Context, path string, opts ...FFmpegOption) (*FFmpegSource, error) {
	o := newFFmpegOptions(opts)
	seq, stream, err := probeSequence(ctx, path, o)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	src := &FFmpegSource{Sequence: seq, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(src.done)
		err := decode(ctx, o, path, stream, seq)
		seq.Finish()
		if err != nil && ctx.Err() == nil {
			ggcompare.Logger().Warn("ffmpeg decode failed", "path", path, "error", err)
			src.mu.Lock()
			src.err = err
			src.mu.Unlock()
		}
	}()
	return src, nil
}

// Err returns the decoder error, if any.
func (s *FFmpegSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the decoder exits.
func (s *FFmpegSource) Wait() error {
	<-s.done
	return s.Err()
}

// Close stops the decoder and waits for it to exit.
func (s *FFmpegSource) Close() error {
	s.cancel()
	<-s.done
	return nil
}

// DecodeFile decodes path completely and returns a finished Sequence.
func DecodeFile(ctx context.Context, path string, opts ...FFmpegOption) (*Sequence, error) {
	o := newFFmpegOptions(opts)
	seq, stream, err := probeSequence(ctx, path, o)
	if err != nil {
		return nil, err
	}
	if err := decode(ctx, o, path, stream, seq); err != nil {
		return nil, err
	}
	seq.Finish()
	if seq.Total() == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, path)
	}
	return seq, nil
}

func probeSequence(ctx context.Context, path string, o ffmpegOptions) (*Sequence, ffprobe.Stream, error) {
	probe, err := ffprobe.Inspect(ctx, o.ffprobe, path)
	if err != nil {
		return nil, ffprobe.Stream{}, err
	}
	stream, ok := probe.VideoStream()
	if !ok || stream.Width <= 0 || stream.Height <= 0 {
		return nil, ffprobe.Stream{}, fmt.Errorf("%w: %s", ErrNoVideoStream, path)
	}
	fps := stream.FrameRate()
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	seq, err := NewSequence(fps, o.seq...)
	if err != nil {
		return nil, ffprobe.Stream{}, err
	}
	seq.SetVideoSize(stream.Width, stream.Height)
	ggcompare.Logger().Debug("ffprobe",
		"path", path, "width", stream.Width, "height", stream.Height, "fps", fps)
	return seq, stream, nil
}

func ffmpegArgs(path string, maxFrames int) []string {
	args := []string{"-v", "error", "-nostdin", "-i", path, "-an", "-f", "rawvideo", "-pix_fmt", "rgba"}
	if maxFrames > 0 {
		args = append(args, "-frames:v", strconv.Itoa(maxFrames))
	}
	return append(args, "-")
}

func decode(ctx context.Context, o ffmpegOptions, path string, stream ffprobe.Stream, seq *Sequence) error {
	cmd := exec.CommandContext(ctx, o.ffmpeg, ffmpegArgs(path, o.maxFrames)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}

	readErr := readFrames(stdout, stream.Width, stream.Height, o.maxFrames, seq.Append)
	if readErr != nil {
		// Drain so the process can exit.
		_, _ = io.Copy(io.Discard, stdout)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return readErr
}

// readFrames splits a raw RGBA stream into width x height frames. A short
// trailing frame is dropped.
func readFrames(r io.Reader, width, height, maxFrames int, emit func(image.Image) error) error {
	size := width * height * 4
	if size <= 0 {
		return fmt.Errorf("media: invalid frame size %dx%d", width, height)
	}
	for n := 0; maxFrames <= 0 || n < maxFrames; n++ {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		if _, err := io.ReadFull(r, img.Pix); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("media: read frame: %w", err)
		}
		if err := emit(img); err != nil {
			return err
		}
	}
	return nil
}
