// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package preview

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/gogpu/ggcompare"
)

//go:embed index.html
var indexHTML []byte

// DefaultJPEGQuality is used when Config.JPEGQuality is unset.
const DefaultJPEGQuality = 85

// ErrNoFrame is reported by /frame.jpg before the first Publish.
var ErrNoFrame = errors.New("preview: no frame published yet")

// Encoder encodes the current surface contents.
type Encoder interface {
	EncodeJPEG(w io.Writer, quality int) error
}

// Poster queues work on the display loop.
type Poster interface {
	Post(fn func())
}

// Controller receives page events. *ggcompare.Comparator satisfies it.
type Controller interface {
	HandlePointerMove(ev ggcompare.PointerEvent, bounds ggcompare.Rect)
	HandleTouch(ev ggcompare.TouchEvent, bounds ggcompare.Rect)
	HandlePointerLeave()
	HandleVisibility(visible bool)
	HandleContainerResize()
}

// Config configures a Server.
type Config struct {
	Surface     Encoder
	Box         *ggcompare.ContainerBox
	Scheduler   Poster
	JPEGQuality int
}

// Server is the preview HTTP server.
type Server struct {
	router   chi.Router
	upgrader websocket.Upgrader

	surface Encoder
	box     *ggcompare.ContainerBox
	sched   Poster
	quality int

	ctrlMu sync.RWMutex
	ctrl   Controller

	mu    sync.Mutex
	frame []byte
	seq   uint64
	subs  map[chan struct{}]struct{}
}

// sameHost accepts websocket handshakes without an Origin header and those
// whose origin is the host the page was served from.
func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// New creates a Server. Call SetController before serving.
func New(cfg Config) *Server {
	quality := cfg.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	s := &Server{
		router: chi.NewRouter(),
		upgrader: websocket.Upgrader{
			CheckOrigin: sameHost,
		},
		surface: cfg.Surface,
		box:     cfg.Box,
		sched:   cfg.Scheduler,
		quality: quality,
		subs:    make(map[chan struct{}]struct{}),
	}
	s.router.Use(middleware.Recoverer)
	s.routes()
	return s
}

// SetController sets the receiver of page events.
func (s *Server) SetController(c Controller) {
	s.ctrlMu.Lock()
	s.ctrl = c
	s.ctrlMu.Unlock()
}

func (s *Server) controller() Controller {
	s.ctrlMu.RLock()
	defer s.ctrlMu.RUnlock()
	return s.ctrl
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/frame.jpg", s.handleFrame)
	s.router.Get("/stream", s.handleStream)
	s.router.Get("/ws", s.handleWS)
}

// Publish encodes the surface and wakes stream subscribers. It has the
// signature of an after-draw hook and must run on the display loop.
func (s *Server) Publish(time.Time) {
	var buf bytes.Buffer
	if err := s.surface.EncodeJPEG(&buf, s.quality); err != nil {
		ggcompare.Logger().Warn("preview encode failed", "error", err)
		return
	}
	s.mu.Lock()
	s.frame = buf.Bytes()
	s.seq++
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
}

// Frame returns the latest published JPEG and its sequence number.
func (s *Server) Frame() ([]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, s.seq
}

func (s *Server) subscribe() (chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if s.frame != nil {
		ch <- struct{}{}
	}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

// Subscribers returns the number of open streams.
func (s *Server) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame, _ := s.Frame()
	if frame == nil {
		http.Error(w, ErrNoFrame.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(frame)
}

const streamBoundary = "ggcompareframe"

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(streamBoundary); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ch, unsubscribe := s.subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+mw.Boundary())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var last uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
		}
		frame, seq := s.Frame()
		if frame == nil || seq == last {
			continue
		}
		last = seq
		if err := writePart(mw, frame); err != nil {
			ggcompare.Logger().Debug("preview stream closed", "error", err)
			return
		}
		flusher.Flush()
	}
}

// writePart writes one JPEG frame as the next part of the stream. The
// multipart stream is never closed; clients replace the image per part.
func writePart(mw *multipart.Writer, frame []byte) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "image/jpeg")
	header.Set("Content-Length", strconv.Itoa(len(frame)))
	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(frame)
	return err
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		ggcompare.Logger().Info("preview listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview shutdown: %w", err)
	}
	return nil
}
