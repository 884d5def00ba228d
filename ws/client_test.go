package ws

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"room-chat/domain/event"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newTestClient upgrades a real connection pair and adapts the server
// side into a Client.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conns <- conn
	}))
	t.Cleanup(server.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = peer.Close() })

	conn := <-conns
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn, slog.Default())
}

func TestClient_Consume_Queues_While_Open(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t)

	err := client.Consume(context.Background(), event.SystemNotice{RoomName: "general", Text: "hello"})

	req.NoError(err)
}

func TestClient_Consume_After_Close_Is_Rejected(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t)

	// Given a connection torn down through several paths at once
	client.Close()
	client.Close()

	// When a fanout that resolved this sink before teardown delivers late
	err := client.Consume(context.Background(), event.SystemNotice{RoomName: "general", Text: "too late"})

	// Then the event is refused; the process must not crash
	req.Error(err)
}
