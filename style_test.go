// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcompare

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func colorNear(a, b gg.RGBA) bool {
	const eps = 1.0 / 255
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestDefaultStyle(t *testing.T) {
	s := DefaultStyle()
	if s.DividerWidth != 5 {
		t.Errorf("DividerWidth = %v, want 5", s.DividerWidth)
	}
	if math.Abs(s.HandleColor.A-0x40/255.0) > 1e-9 {
		t.Errorf("HandleColor alpha = %v, want %v", s.HandleColor.A, 0x40/255.0)
	}
	gray := gg.RGBA{R: 0xAA / 255.0, G: 0xAA / 255.0, B: 0xAA / 255.0, A: 1}
	if !colorNear(s.DividerColor, gray) || !colorNear(s.ArrowColor, gray) {
		t.Errorf("divider/arrow = %+v / %+v, want #AAAAAA", s.DividerColor, s.ArrowColor)
	}
}

func TestDarkStyle(t *testing.T) {
	s := DarkStyle()
	dark := gg.RGBA{R: 0x44 / 255.0, G: 0x44 / 255.0, B: 0x44 / 255.0, A: 1}
	if !colorNear(s.DividerColor, dark) || !colorNear(s.ArrowColor, dark) {
		t.Errorf("divider/arrow = %+v / %+v, want #444444", s.DividerColor, s.ArrowColor)
	}
	if s.HandleColor != DefaultStyle().HandleColor {
		t.Error("dark style changed the handle color")
	}
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("", "#ff0000", "00F", 0)
	if err != nil {
		t.Fatalf("ParseStyle() error = %v", err)
	}
	if s.HandleColor != DefaultStyle().HandleColor {
		t.Error("empty handle color should keep the default")
	}
	if !colorNear(s.DividerColor, gg.RGBA{R: 1, A: 1}) {
		t.Errorf("DividerColor = %+v, want red", s.DividerColor)
	}
	if !colorNear(s.ArrowColor, gg.RGBA{B: 1, A: 1}) {
		t.Errorf("ArrowColor = %+v, want blue", s.ArrowColor)
	}
	if s.DividerWidth != 5 {
		t.Errorf("DividerWidth = %v, want default 5", s.DividerWidth)
	}

	s, err = ParseStyle("", "", "", 2.5)
	if err != nil || s.DividerWidth != 2.5 {
		t.Errorf("ParseStyle(width 2.5) = %v, %v", s.DividerWidth, err)
	}
}

func TestParseStyleErrors(t *testing.T) {
	cases := []struct {
		name                   string
		handle, divider, arrow string
		width                  float64
	}{
		{"bad length", "#12345", "", "", 0},
		{"bad digit", "", "#GGGGGG", "", 0},
		{"negative width", "", "", "", -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseStyle(tc.handle, tc.divider, tc.arrow, tc.width); err == nil {
				t.Error("ParseStyle() should fail")
			}
		})
	}
}
