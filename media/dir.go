// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package media

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/webp" // register WebP decoding
)

var frameExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
}

// FrameFiles lists the image files in dir in name order.
func FrameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("media: read frames dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadDir decodes every frame image in dir into a finished Sequence played
// at fps. All frames must share one size.
func LoadDir(dir string, fps float64, opts ...SequenceOption) (*Sequence, error) {
	files, err := FrameFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}
	seq, err := NewSequence(fps, opts...)
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		img, err := decodeImageFile(path)
		if err != nil {
			return nil, err
		}
		if err := seq.Append(img); err != nil {
			return nil, fmt.Errorf("media: %s: %w", filepath.Base(path), err)
		}
	}
	seq.Finish()
	return seq, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: open frame: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("media: decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
