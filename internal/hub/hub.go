// Package hub fans the arena event feed out to websocket spectators.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"

	"othello-arena/internal/events"
)

// sendBuffer bounds how far a slow spectator may fall behind before it is
// dropped.
const sendBuffer = 32

type spectator struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub owns the spectator set and broadcasts every arena event to it.
type Hub struct {
	feed       <-chan events.Event
	register   chan *spectator
	unregister chan *spectator
	spectators map[*spectator]struct{}
}

// NewHub creates a hub over an event feed.
func NewHub(feed <-chan events.Event) *Hub {
	return &Hub{
		feed:       feed,
		register:   make(chan *spectator),
		unregister: make(chan *spectator),
		spectators: make(map[*spectator]struct{}),
	}
}

// Run drives the hub until the context is cancelled or the feed closes.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for s := range h.spectators {
			h.drop(s)
		}
	}()

	for {
		select {
		case s := <-h.register:
			h.spectators[s] = struct{}{}
			slog.Info("spectator connected", "spectators", len(h.spectators))

		case s := <-h.unregister:
			if _, ok := h.spectators[s]; ok {
				h.drop(s)
			}

		case event, ok := <-h.feed:
			if !ok {
				return
			}
			h.broadcast(ctx, event)

		case <-ctx.Done():
			return
		}
	}
}

// broadcast marshals the event once and hands it to every spectator. A
// spectator whose buffer is full is dropped rather than allowed to stall the
// feed.
func (h *Hub) broadcast(ctx context.Context, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling event", "error", err)
		return
	}
	for s := range h.spectators {
		select {
		case s.send <- data:
		default:
			slog.WarnContext(ctx, "dropping slow spectator")
			h.drop(s)
		}
	}
}

func (h *Hub) drop(s *spectator) {
	delete(h.spectators, s)
	close(s.send)
}

// Register attaches an upgraded connection to the hub and starts its pumps.
func (h *Hub) Register(conn *websocket.Conn) {
	s := &spectator{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- s
	go s.writePump()
	go s.readPump(h)
}

// writePump forwards broadcast frames to the connection until the hub closes
// the send channel.
func (s *spectator) writePump() {
	defer s.conn.Close()
	for data := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("error writing to spectator", "error", err)
			return
		}
	}
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards inbound frames; its job is to notice the connection
// closing and unregister the spectator.
func (s *spectator) readPump(h *Hub) {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			h.unregister <- s
			return
		}
	}
}
