// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package preview

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gogpu/ggcompare"
)

// Message types sent by the page.
const (
	TypePointerMove  = "pointermove"
	TypeTouchStart   = "touchstart"
	TypeTouchMove    = "touchmove"
	TypePointerLeave = "pointerleave"
	TypeVisibility   = "visibility"
	TypeResize       = "resize"
)

// ErrUnknownMessage is returned for messages with an unrecognised type.
var ErrUnknownMessage = errors.New("preview: unknown message type")

// Rect is the surface's bounding rectangle in page coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Touch is one touch point.
type Touch struct {
	ID    int     `json:"id"`
	PageX float64 `json:"page_x"`
	PageY float64 `json:"page_y"`
}

// Message is a page event.
type Message struct {
	Type           string  `json:"type"`
	PageX          float64 `json:"page_x,omitempty"`
	PageY          float64 `json:"page_y,omitempty"`
	Rect           Rect    `json:"rect"`
	Touches        []Touch `json:"touches,omitempty"`
	Visible        bool    `json:"visible,omitempty"`
	ContainerWidth float64 `json:"container_width,omitempty"`
}

// Output is a server reply.
type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func (r Rect) bounds() ggcompare.Rect {
	return ggcompare.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ggcompare.Logger().Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	log := ggcompare.Logger().With("session", session)
	log.Info("preview session opened", "remote", r.RemoteAddr)

	if err := conn.WriteJSON(&Output{Type: "hello", Payload: map[string]any{"session": session}}); err != nil {
		log.Warn("websocket write failed", "error", err)
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("preview session closed")
			} else {
				log.Warn("websocket read failed", "error", err)
			}
			return
		}
		if err := s.Dispatch(msg); err != nil {
			log.Warn("preview message rejected", "type", msg.Type, "error", err)
			if err := conn.WriteJSON(&Output{Type: "error", Payload: err.Error()}); err != nil {
				return
			}
		}
	}
}

// Dispatch posts the comparator call for msg to the display loop.
func (s *Server) Dispatch(msg Message) error {
	ctrl := s.controller()
	if ctrl == nil {
		return errors.New("preview: no controller")
	}

	var fn func()
	switch msg.Type {
	case TypePointerMove:
		ev := ggcompare.PointerEvent{PageX: msg.PageX, PageY: msg.PageY}
		bounds := msg.Rect.bounds()
		fn = func() { ctrl.HandlePointerMove(ev, bounds) }
	case TypeTouchStart, TypeTouchMove:
		ev := ggcompare.TouchEvent{Touches: make([]ggcompare.TouchPoint, len(msg.Touches))}
		for i, t := range msg.Touches {
			ev.Touches[i] = ggcompare.TouchPoint{ID: t.ID, PageX: t.PageX, PageY: t.PageY}
		}
		bounds := msg.Rect.bounds()
		fn = func() { ctrl.HandleTouch(ev, bounds) }
	case TypePointerLeave:
		fn = ctrl.HandlePointerLeave
	case TypeVisibility:
		visible := msg.Visible
		fn = func() { ctrl.HandleVisibility(visible) }
	case TypeResize:
		width := msg.ContainerWidth
		if width <= 0 {
			return fmt.Errorf("preview: invalid container width %v", width)
		}
		fn = func() {
			if s.box != nil {
				s.box.SetWidth(width)
			}
			ctrl.HandleContainerResize()
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	s.sched.Post(fn)
	return nil
}
