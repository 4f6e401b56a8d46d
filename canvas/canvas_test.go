// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"bytes"
	"errors"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gg"
)

func TestNew(t *testing.T) {
	c, err := New(200, 100)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	w, h := c.Size()
	if w != 200 || h != 100 {
		t.Errorf("Size() = %dx%d, want 200x100", w, h)
	}
	if c.IsDirty() {
		t.Error("new canvas should not be dirty")
	}
}

func TestNewInvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 100},
		{"zero height", 100, 0},
		{"negative", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.height)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("New(%d, %d) error = %v, want ErrInvalidDimensions", tt.width, tt.height, err)
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew(0, 0) did not panic")
		}
	}()
	MustNew(0, 0)
}

func TestResize(t *testing.T) {
	c := MustNew(10, 10)
	defer c.Close()

	if err := c.Resize(200, 200); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if w, h := c.Size(); w != 200 || h != 200 {
		t.Errorf("Size() = %dx%d, want 200x200", w, h)
	}
	if !c.IsDirty() {
		t.Error("Resize should mark the canvas dirty")
	}

	img, err := c.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Errorf("snapshot bounds = %v, want 200x200", img.Bounds())
	}
}

func TestResizeDiscardsContent(t *testing.T) {
	c := MustNew(20, 20)
	defer c.Close()

	_ = c.Draw(func(dc *gg.Context) {
		dc.ClearWithColor(gg.Red)
	})
	if err := c.Resize(30, 30); err != nil {
		t.Fatal(err)
	}
	img, _ := c.Snapshot()
	if px := img.RGBAAt(5, 5); px.A != 0 {
		t.Errorf("pixel after resize = %v, want transparent", px)
	}
}

func TestResizeSameSizeNoop(t *testing.T) {
	c := MustNew(20, 20)
	defer c.Close()

	if err := c.Resize(20, 20); err != nil {
		t.Fatal(err)
	}
	if c.IsDirty() {
		t.Error("same-size Resize should not mark dirty")
	}
}

func TestResizeInvalid(t *testing.T) {
	c := MustNew(20, 20)
	defer c.Close()

	if err := c.Resize(0, 10); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 10) error = %v, want ErrInvalidDimensions", err)
	}
	if w, h := c.Size(); w != 20 || h != 20 {
		t.Errorf("size changed to %dx%d after failed resize", w, h)
	}
}

func TestDrawMarksDirty(t *testing.T) {
	c := MustNew(100, 100)
	defer c.Close()

	err := c.Draw(func(dc *gg.Context) {
		dc.SetRGB(1, 0, 0)
		dc.DrawRectangle(10, 10, 50, 50)
		_ = dc.Fill()
	})
	if err != nil {
		t.Fatal(err)
	}
	if !c.IsDirty() {
		t.Error("Draw should mark dirty")
	}

	img, _ := c.Snapshot()
	if px := img.RGBAAt(30, 30); px.R < 250 || px.G > 5 || px.A < 250 {
		t.Errorf("pixel inside rectangle = %v, want red", px)
	}
	if px := img.RGBAAt(80, 80); px.A != 0 {
		t.Errorf("pixel outside rectangle = %v, want transparent", px)
	}

	c.MarkClean()
	if c.IsDirty() {
		t.Error("MarkClean did not clear the dirty flag")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	c := MustNew(4, 4)
	defer c.Close()

	img, _ := c.Snapshot()
	img.Pix[0] = 255

	again, _ := c.Snapshot()
	if again.Pix[0] != 0 {
		t.Error("modifying a snapshot changed the canvas")
	}
}

func TestEncode(t *testing.T) {
	c := MustNew(16, 8)
	defer c.Close()

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Errorf("decoded bounds = %v, want 16x8", img.Bounds())
	}

	buf.Reset()
	if err := c.EncodeJPEG(&buf, 80); err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}
	if _, err := jpeg.Decode(&buf); err != nil {
		t.Fatalf("jpeg.Decode() error = %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	c := MustNew(8, 8)
	defer c.Close()

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := c.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("SavePNG wrote nothing: %v", err)
	}
}

func TestClosed(t *testing.T) {
	c := MustNew(8, 8)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}

	if err := c.Resize(4, 4); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Resize after Close = %v, want ErrCanvasClosed", err)
	}
	if err := c.Draw(func(*gg.Context) {}); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Draw after Close = %v, want ErrCanvasClosed", err)
	}
	if _, err := c.Snapshot(); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Snapshot after Close = %v, want ErrCanvasClosed", err)
	}
}
