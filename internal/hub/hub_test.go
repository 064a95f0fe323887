package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"othello-arena/internal/events"
)

func TestHub_BroadcastsFeedToSpectators(t *testing.T) {
	feed := make(chan events.Event)
	h := NewHub(feed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		h.Register(conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	event, err := events.New(events.TypeMovePlayed, events.MovePlayedPayload{
		GameID: "g-1",
		Player: "X",
		Move:   "d3",
	})
	require.NoError(t, err)

	// The dial handshake finishing does not mean the hub has seen the
	// registration yet, so keep feeding until a frame arrives.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case feed <- event:
				time.Sleep(10 * time.Millisecond)
			case <-done:
				return
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got events.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, events.TypeMovePlayed, got.Type)
}

func TestHub_StopsWhenFeedCloses(t *testing.T) {
	feed := make(chan events.Event)
	h := NewHub(feed)

	stopped := make(chan struct{})
	go func() {
		h.Run(context.Background())
		close(stopped)
	}()

	close(feed)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop after feed closed")
	}
}
