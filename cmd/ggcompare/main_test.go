// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gogpu/ggcompare"
)

func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	t.Cleanup(func() { ggcompare.SetLogger(nil) })
	return home
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeDemo(t *testing.T, dir string, frames int) {
	t.Helper()
	out, _, err := runCLI(t, "demo", "--out", dir, "--frames", strconv.Itoa(frames), "--width", "640", "--height", "240")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	requireContains(t, out, "Wrote "+strconv.Itoa(frames)+" demo frames")
	files, _ := filepath.Glob(filepath.Join(dir, "*.png"))
	if len(files) != frames {
		t.Fatalf("demo wrote %d files, want %d", len(files), frames)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	home := setupCLITest(t)

	target := filepath.Join(home, "cfg", "config.toml")
	out, _, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second config init without --overwrite should fail")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, "--config", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, target)
	requireContains(t, out, "[render]")
	requireContains(t, out, "[preview]")
}

func TestInvalidConfigFails(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "bad.toml")
	if err := os.WriteFile(path, []byte("[render]\nformat = \"gif\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, "--config", path, "config", "show")
	if err == nil || !strings.Contains(err.Error(), "render.format") {
		t.Fatalf("config show with bad config = %v", err)
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	setupCLITest(t)
	if _, _, err := runCLI(t, "--log-level", "chatty", "config", "show"); err == nil {
		t.Fatal("expected invalid --log-level to fail")
	}
}

func TestDemoValidatesSize(t *testing.T) {
	setupCLITest(t)
	if _, _, err := runCLI(t, "demo", "--width", "641"); err == nil {
		t.Fatal("odd packed width should fail")
	}
	if _, _, err := runCLI(t, "demo", "--frames", "0"); err == nil {
		t.Fatal("zero frames should fail")
	}
}

func TestRenderDirectory(t *testing.T) {
	home := setupCLITest(t)
	input := filepath.Join(home, "in")
	writeDemo(t, input, 3)

	output := filepath.Join(home, "out")
	out, _, err := runCLI(t, "render", input, "--out", output, "--frames", "5", "--width", "160", "--label-a", "A", "--label-b", "B")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, out, "Wrote 5 frames")

	files, _ := filepath.Glob(filepath.Join(output, "frame_*.png"))
	if len(files) != 5 {
		t.Fatalf("render wrote %d files, want 5", len(files))
	}
	f, err := os.Open(files[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode rendered frame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Fatalf("rendered frame = %v, want 160x120", b)
	}
}

func TestRenderSweepJPEG(t *testing.T) {
	home := setupCLITest(t)
	input := filepath.Join(home, "in")
	writeDemo(t, input, 3)

	output := filepath.Join(home, "out")
	if _, _, err := runCLI(t, "render", input, "--out", output, "--frames", "4", "--width", "100", "--sweep", "--format", "jpg"); err != nil {
		t.Fatalf("render: %v", err)
	}
	files, _ := filepath.Glob(filepath.Join(output, "frame_*.jpg"))
	if len(files) != 4 {
		t.Fatalf("render wrote %d jpeg files, want 4", len(files))
	}
}

func TestRenderMissingInput(t *testing.T) {
	home := setupCLITest(t)
	if _, _, err := runCLI(t, "render", filepath.Join(home, "nope")); err == nil {
		t.Fatal("render of a missing input should fail")
	}
}

func TestProbeDirectory(t *testing.T) {
	home := setupCLITest(t)
	input := filepath.Join(home, "in")
	writeDemo(t, input, 3)

	out, _, err := runCLI(t, "probe", input, "--width", "160")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	requireContains(t, out, "640x240")
	requireContains(t, out, "320x240")
	requireContains(t, out, "160x120")
	requireContains(t, out, "Frames")
	requireContains(t, out, "Video streams")
}

func TestProbeDirectoryJSON(t *testing.T) {
	home := setupCLITest(t)
	input := filepath.Join(home, "in")
	writeDemo(t, input, 3)

	out, _, err := runCLI(t, "probe", input, "--json")
	if err != nil {
		t.Fatalf("probe --json: %v", err)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("probe --json output is not JSON: %v (%q)", err, out)
	}
	if info["width"] != float64(640) || info["height"] != float64(240) || info["frames"] != float64(3) {
		t.Fatalf("info = %v", info)
	}
	if _, ok := info["ffprobe"]; ok {
		t.Fatalf("directory probe should not carry ffprobe output: %v", info)
	}
}

func TestProbeInfoJSONEmbedsFFprobe(t *testing.T) {
	raw := []byte(`{"streams":[{"codec_type":"video"}]}`)
	data, err := json.Marshal(probeInfo{Input: "cmp.mp4", VideoStreams: 1, FFprobe: raw})
	if err != nil {
		t.Fatal(err)
	}
	requireContains(t, string(data), `"ffprobe":{"streams":[{"codec_type":"video"}]}`)
	requireContains(t, string(data), `"video_streams":1`)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "auto", "debug")
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hello", "k", 1)
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("auto format on a buffer should be JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Fatalf("entry = %v", entry)
	}

	buf.Reset()
	logger, _ = newLogger(&buf, "text", "warn")
	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
	logger.Warn("loud")
	requireContains(t, buf.String(), "msg=loud")

	if _, err := newLogger(&buf, "xml", "info"); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func TestSweepX(t *testing.T) {
	if got := sweepX(0, 5, 200); got != 0 {
		t.Fatalf("sweepX(0) = %v", got)
	}
	if got := sweepX(4, 5, 200); got != 200 {
		t.Fatalf("sweepX(last) = %v", got)
	}
	if got := sweepX(0, 1, 200); got != 100 {
		t.Fatalf("sweepX(single) = %v", got)
	}
}

func TestProbeTableWithoutMetadata(t *testing.T) {
	out := probeTable(probeInfo{Input: "x"}, 100)
	requireContains(t, out, "n/a")
}
