// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package preview

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggcompare"
	"github.com/gogpu/ggcompare/canvas"
)

type inlinePoster struct{}

func (inlinePoster) Post(fn func()) { fn() }

type staticEncoder struct {
	data []byte
	err  error
}

func (e staticEncoder) EncodeJPEG(w io.Writer, _ int) error {
	if e.err != nil {
		return e.err
	}
	_, err := w.Write(e.data)
	return err
}

type recorder struct {
	mu     sync.Mutex
	calls  []string
	last   float64
	bounds ggcompare.Rect
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
}

func (r *recorder) HandlePointerMove(ev ggcompare.PointerEvent, b ggcompare.Rect) {
	r.mu.Lock()
	r.last, r.bounds = ev.PageX, b
	r.mu.Unlock()
	r.add(TypePointerMove)
}

func (r *recorder) HandleTouch(ev ggcompare.TouchEvent, b ggcompare.Rect) {
	r.mu.Lock()
	if len(ev.Touches) > 0 {
		r.last = ev.Touches[0].PageX
	}
	r.bounds = b
	r.mu.Unlock()
	r.add("touch")
}

func (r *recorder) HandlePointerLeave() { r.add(TypePointerLeave) }

func (r *recorder) HandleVisibility(visible bool) {
	if visible {
		r.add("visible")
	} else {
		r.add("hidden")
	}
}

func (r *recorder) HandleContainerResize() { r.add(TypeResize) }

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func newTestServer(t *testing.T, enc Encoder) (*Server, *recorder, *ggcompare.ContainerBox) {
	t.Helper()
	box := &ggcompare.ContainerBox{W: 100}
	s := New(Config{Surface: enc, Box: box, Scheduler: inlinePoster{}})
	rec := &recorder{}
	s.SetController(rec)
	return s, rec, box
}

func TestHealthAndIndex(t *testing.T) {
	s, _, _ := newTestServer(t, staticEncoder{data: []byte("x")})
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "ok") {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `src="/stream"`) {
		t.Fatalf("index page does not reference the stream: %q", body)
	}
}

func TestFrameBeforeAndAfterPublish(t *testing.T) {
	s, _, _ := newTestServer(t, staticEncoder{data: []byte("jpegdata")})
	ts := httptest.NewServer(s)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/frame.jpg")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status before publish = %d, want 503", resp.StatusCode)
	}

	s.Publish(time.Now())
	resp, err = http.Get(ts.URL + "/frame.jpg")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "jpegdata" {
		t.Fatalf("frame = %d %q", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestPublishEncodeError(t *testing.T) {
	s, _, _ := newTestServer(t, staticEncoder{err: errors.New("closed")})
	s.Publish(time.Now())
	if frame, seq := s.Frame(); frame != nil || seq != 0 {
		t.Fatalf("Frame() = %q, %d after failed encode", frame, seq)
	}
}

func TestPublishCanvasJPEG(t *testing.T) {
	c := canvas.MustNew(32, 16)
	defer c.Close()
	if err := c.Draw(func(dc *gg.Context) { dc.ClearWithColor(gg.Red) }); err != nil {
		t.Fatal(err)
	}
	s, _, _ := newTestServer(t, c)
	s.Publish(time.Now())
	frame, seq := s.Frame()
	if seq != 1 {
		t.Fatalf("seq = %d, want 1", seq)
	}
	img, err := jpeg.Decode(strings.NewReader(string(frame)))
	if err != nil {
		t.Fatalf("published frame is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("frame bounds = %v", b)
	}
}

func TestStream(t *testing.T) {
	s, _, _ := newTestServer(t, staticEncoder{data: []byte("first")})
	ts := httptest.NewServer(s)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/x-mixed-replace" {
		t.Fatalf("content type = %q (%v)", resp.Header.Get("Content-Type"), err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for s.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.Publish(time.Now())

	mr := multipart.NewReader(resp.Body, params["boundary"])
	part, err := mr.NextPart()
	if err != nil {
		t.Fatalf("NextPart: %v", err)
	}
	if ct := part.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("part content type = %q", ct)
	}
	data := make([]byte, len("first"))
	if _, err := io.ReadFull(part, data); err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Fatalf("part = %q, want first", data)
	}

	cancel()
	deadline = time.Now().Add(5 * time.Second)
	for s.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream did not unsubscribe")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWritePartSequence(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.SetBoundary(streamBoundary); err != nil {
		t.Fatal(err)
	}
	for _, frame := range []string{"one", "two"} {
		if err := writePart(mw, []byte(frame)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	mr := multipart.NewReader(&buf, streamBoundary)
	for _, want := range []string{"one", "two"} {
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		if cl := part.Header.Get("Content-Length"); cl != strconv.Itoa(len(want)) {
			t.Errorf("Content-Length = %q, want %d", cl, len(want))
		}
		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != want {
			t.Errorf("part = %q, want %q", data, want)
		}
	}
	if _, err := mr.NextPart(); err != io.EOF {
		t.Errorf("NextPart after last = %v, want EOF", err)
	}
}

func TestDispatch(t *testing.T) {
	s, rec, box := newTestServer(t, staticEncoder{})
	msgs := []Message{
		{Type: TypePointerMove, PageX: 42, Rect: Rect{Width: 100}},
		{Type: TypeTouchStart, Touches: []Touch{{PageX: 7}}, Rect: Rect{Width: 100}},
		{Type: TypeTouchMove},
		{Type: TypePointerLeave},
		{Type: TypeVisibility, Visible: true},
		{Type: TypeVisibility},
		{Type: TypeResize, ContainerWidth: 320},
	}
	for _, m := range msgs {
		if err := s.Dispatch(m); err != nil {
			t.Fatalf("Dispatch(%s): %v", m.Type, err)
		}
	}
	want := []string{TypePointerMove, "touch", "touch", TypePointerLeave, "visible", "hidden", TypeResize}
	got := rec.snapshot()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	if box.Width() != 320 {
		t.Fatalf("container width = %v, want 320", box.Width())
	}

	if err := s.Dispatch(Message{Type: "scroll"}); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("Dispatch(scroll) = %v, want ErrUnknownMessage", err)
	}
	if err := s.Dispatch(Message{Type: TypeResize}); err == nil {
		t.Fatal("Dispatch(resize 0) should fail")
	}
}

func TestDispatchWithoutController(t *testing.T) {
	s := New(Config{Surface: staticEncoder{}, Scheduler: inlinePoster{}})
	if err := s.Dispatch(Message{Type: TypePointerLeave}); err == nil {
		t.Fatal("Dispatch without controller should fail")
	}
}

func TestWebSocketEvents(t *testing.T) {
	s, rec, _ := newTestServer(t, staticEncoder{})
	ts := httptest.NewServer(s)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var hello Output
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != "hello" {
		t.Fatalf("hello = %+v (%v)", hello, err)
	}

	if err := conn.WriteJSON(Message{Type: TypePointerMove, PageX: 25, Rect: Rect{X: 0, Width: 100}}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(Message{Type: "bogus"}); err != nil {
		t.Fatal(err)
	}
	var reply Output
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.Type != "error" {
		t.Fatalf("reply = %+v, want error", reply)
	}

	// Messages on one connection are handled in order, so the pointer move
	// has been dispatched by the time the error reply arrives.
	calls := rec.snapshot()
	if len(calls) != 1 || calls[0] != TypePointerMove {
		t.Fatalf("calls = %v", calls)
	}
	rec.mu.Lock()
	last, bounds := rec.last, rec.bounds
	rec.mu.Unlock()
	if last != 25 || bounds.Width != 100 {
		t.Fatalf("pointer = %v bounds = %+v", last, bounds)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	s, rec, _ := newTestServer(t, staticEncoder{})
	ts := httptest.NewServer(s)
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	header := http.Header{"Origin": {"http://elsewhere.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		conn.Close()
		t.Fatal("dial from a foreign origin should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("response = %v, want 403", resp)
	}
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("calls = %v", calls)
	}

	header = http.Header{"Origin": {ts.URL}}
	conn, _, err = websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial from the page origin: %v", err)
	}
	conn.Close()
}

func TestSameHost(t *testing.T) {
	tests := []struct {
		origin, host string
		want         bool
	}{
		{"", "127.0.0.1:8787", true},
		{"http://127.0.0.1:8787", "127.0.0.1:8787", true},
		{"http://LOCALHOST:8787", "localhost:8787", true},
		{"http://127.0.0.1:9999", "127.0.0.1:8787", false},
		{"https://evil.example", "127.0.0.1:8787", false},
		{"://bad", "127.0.0.1:8787", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Host = tt.host
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := sameHost(r); got != tt.want {
			t.Errorf("sameHost(origin=%q, host=%q) = %v, want %v", tt.origin, tt.host, got, tt.want)
		}
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s, _, _ := newTestServer(t, staticEncoder{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
