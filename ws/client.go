// Package ws carries the chat core over WebSocket connections: one
// read pump and one write pump per client, JSON frames both ways.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"room-chat/chat"
	"room-chat/domain/event"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client adapts one WebSocket connection into an event sink. Outbound
// events are queued on a buffered channel; the write pump drains it.
// The send channel is never closed: a fanout goroutine that resolved
// this sink just before teardown may still call Consume, so shutdown
// is signaled through done instead.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
	log  *slog.Logger
}

func NewClient(conn *websocket.Conn, log *slog.Logger) *Client {
	conn.SetReadLimit(maxMessageSize)
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
		log:  log,
	}
}

// Close marks the client as gone. Safe to call from any goroutine,
// any number of times; Consume rejects events from then on and the
// write pump drains out.
func (c *Client) Close() {
	c.once.Do(func() { close(c.done) })
}

// Consume queues an event for delivery. It never blocks: when the
// buffer is full the event is dropped and the error tells the caller,
// which logs and moves on. A consumer that slow is already broken.
func (c *Client) Consume(ctx context.Context, e event.DomainEvent) error {
	payload, err := EncodeEvent(e)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return fmt.Errorf("connection closed")
	default:
	}
	select {
	case c.send <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

// writePump drains the send queue onto the connection and keeps the
// peer alive with periodic pings. Exits when Close is signaled or a
// write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads frames and dispatches them to the session until the
// connection drops. It blocks the caller; transport-level close is the
// implicit disconnect signal.
func (c *Client) readPump(ctx context.Context, session *chat.Session) {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Warn("unexpected websocket close", "identity", session.Identity(), "err", err)
			}
			return
		}
		c.dispatch(ctx, session, payload)
	}
}

func (c *Client) dispatch(ctx context.Context, session *chat.Session, payload []byte) {
	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		c.log.Debug("discarding malformed frame", "identity", session.Identity(), "err", err)
		return
	}

	switch frame.Event {
	case EventJoinRoom:
		var room string
		if err := json.Unmarshal(frame.Data, &room); err != nil {
			return
		}
		session.JoinRoom(ctx, room)
	case EventLeaveRoom:
		var room string
		if err := json.Unmarshal(frame.Data, &room); err != nil {
			return
		}
		session.LeaveRoom(ctx, room)
	case EventChatMsg:
		var msg PostMessagePayload
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			return
		}
		// Empty messages are silently dropped; other failures were
		// already reported to this session as a system notice.
		_ = session.PostMessage(ctx, msg.Room, msg.Text)
	case EventTyping:
		var room string
		if err := json.Unmarshal(frame.Data, &room); err != nil {
			return
		}
		session.Typing(ctx, room)
	default:
		c.log.Debug("discarding unknown event", "event", frame.Event, "identity", session.Identity())
	}
}
