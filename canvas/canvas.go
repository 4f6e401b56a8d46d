// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/gogpu/gg"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("canvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("canvas: invalid dimensions")
)

// Canvas is a resizable gg raster target. It satisfies ggcompare.Surface.
type Canvas struct {
	ctx    *gg.Context
	dirty  bool
	width  int
	height int
	closed bool
}

// New creates a Canvas of the given size.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Canvas{
		ctx:    gg.NewContext(width, height),
		width:  width,
		height: height,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(width, height int) *Canvas {
	c, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return c
}

// Size returns width and height in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Resize changes the canvas dimensions and discards its content, the way
// assigning a new size to a raster canvas does. Same-size calls are no-ops.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.width == width && c.height == height {
		return nil
	}
	if err := c.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("canvas: context resize failed: %w", err)
	}
	c.width = width
	c.height = height
	c.dirty = true
	return nil
}

// Draw calls fn with the gg context and marks the canvas dirty.
func (c *Canvas) Draw(fn func(dc *gg.Context)) error {
	if c.closed {
		return ErrCanvasClosed
	}
	fn(c.ctx)
	c.dirty = true
	return nil
}

// IsDirty reports whether the canvas changed since MarkClean.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// MarkClean clears the dirty flag, typically after publishing a snapshot.
func (c *Canvas) MarkClean() {
	c.dirty = false
}

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() (*image.RGBA, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	_ = c.ctx.FlushGPU()
	return c.ctx.ResizeTarget().ToImage(), nil
}

// EncodePNG writes the current pixels as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	img, err := c.Snapshot()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// EncodeJPEG writes the current pixels as JPEG with the given quality (1-100).
func (c *Canvas) EncodeJPEG(w io.Writer, quality int) error {
	img, err := c.Snapshot()
	if err != nil {
		return err
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// SavePNG writes the current pixels to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("canvas: create %s: %w", path, err)
	}
	if err := c.EncodePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("canvas: encode %s: %w", path, err)
	}
	return f.Close()
}

// Close releases the gg context. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.ctx != nil {
		_ = c.ctx.Close()
		c.ctx = nil
	}
	return nil
}
