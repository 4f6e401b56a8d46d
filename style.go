// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcompare

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// Style controls how the split indicator is painted.
type Style struct {
	// HandleColor fills the translucent circle behind the arrow.
	HandleColor gg.RGBA

	// DividerColor strokes the full-height split line.
	DividerColor gg.RGBA

	// DividerWidth is the split line width in pixels.
	DividerWidth float64

	// ArrowColor fills the double-headed arrow glyph.
	ArrowColor gg.RGBA
}

// DefaultStyle returns the warm translucent handle with a light gray line.
func DefaultStyle() Style {
	return Style{
		HandleColor:  gg.Hex("#FFD79340"),
		DividerColor: gg.Hex("#AAAAAA"),
		DividerWidth: 5,
		ArrowColor:   gg.Hex("#AAAAAA"),
	}
}

// DarkStyle returns the darker divider and arrow, for bright footage.
func DarkStyle() Style {
	s := DefaultStyle()
	s.DividerColor = gg.Hex("#444444")
	s.ArrowColor = gg.Hex("#444444")
	return s
}

// ParseStyle builds a Style from hex color strings ("#RGB", "#RGBA",
// "#RRGGBB" or "#RRGGBBAA"). Empty strings keep the default color.
func ParseStyle(handle, divider, arrow string, dividerWidth float64) (Style, error) {
	s := DefaultStyle()
	for _, f := range []struct {
		name  string
		value string
		dst   *gg.RGBA
	}{
		{"handle", handle, &s.HandleColor},
		{"divider", divider, &s.DividerColor},
		{"arrow", arrow, &s.ArrowColor},
	} {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		c, err := parseHexColor(f.value)
		if err != nil {
			return Style{}, fmt.Errorf("%s color: %w", f.name, err)
		}
		*f.dst = c
	}
	if dividerWidth < 0 {
		return Style{}, fmt.Errorf("divider width must not be negative, got %v", dividerWidth)
	}
	if dividerWidth > 0 {
		s.DividerWidth = dividerWidth
	}
	return s, nil
}

func parseHexColor(s string) (gg.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return gg.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return gg.RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
	}
	return gg.Hex(hex), nil
}
