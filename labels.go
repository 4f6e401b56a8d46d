// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcompare

import (
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/unicode/norm"
)

// DefaultLabelSize is the label font size in pixels.
const DefaultLabelSize = 20

var (
	labelFontOnce sync.Once
	labelFont     *text.FontSource
	labelFontErr  error
)

// labelSource returns the shared Go Regular font source. It is parsed once
// per process.
func labelSource() (*text.FontSource, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = text.NewFontSource(goregular.TTF)
	})
	return labelFont, labelFontErr
}

// labelPainter draws the variant names in the bottom corners.
type labelPainter struct {
	left, right string
	size        float64

	face     text.Face
	faceSize float64
}

func newLabelPainter(left, right string, size float64) *labelPainter {
	if size <= 0 {
		size = DefaultLabelSize
	}
	return &labelPainter{
		left:  norm.NFC.String(left),
		right: norm.NFC.String(right),
		size:  size,
	}
}

func (p *labelPainter) empty() bool {
	return p == nil || (p.left == "" && p.right == "")
}

func (p *labelPainter) fontFace() text.Face {
	if p.face != nil && p.faceSize == p.size {
		return p.face
	}
	src, err := labelSource()
	if err != nil {
		Logger().Warn("label font unavailable", "error", err)
		return nil
	}
	p.face = src.Face(p.size)
	p.faceSize = p.size
	return p.face
}

// draw paints white labels with a one-pixel dark outline, variant A
// bottom-left and variant B bottom-right.
func (p *labelPainter) draw(dc *gg.Context, width, height float64) {
	if p.empty() {
		return
	}
	face := p.fontFace()
	if face == nil {
		return
	}
	dc.SetFont(face)

	margin := p.size / 2
	baseline := height - margin
	put := func(s string, x, ax float64) {
		if s == "" {
			return
		}
		dc.SetRGBA(0, 0, 0, 1)
		for _, d := range [][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			dc.DrawStringAnchored(s, x+d[0], baseline+d[1], ax, 0)
		}
		dc.SetRGBA(1, 1, 1, 1)
		dc.DrawStringAnchored(s, x, baseline, ax, 0)
	}
	put(p.left, margin, 0)
	put(p.right, width-margin, 1)
}
