package ws

import (
	"encoding/json"
	"fmt"

	"room-chat/domain"
	"room-chat/domain/event"

	"github.com/samber/lo"
)

// Frame is the JSON envelope used in both directions:
// {"event": "...", "data": ...}.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client to server event names.
const (
	EventJoinRoom  = "joinRoom"
	EventLeaveRoom = "leaveRoom"
	EventChatMsg   = "chatMessage"
	EventTyping    = "typing"
)

// Server to client event names (EventChatMsg and EventTyping are shared).
const (
	EventChatHistory = "chatHistory"
	EventPresence    = "presence"
	EventSystemMsg   = "systemMessage"
)

// PostMessagePayload is the inbound chatMessage body.
type PostMessagePayload struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// TypingPayload is the outbound typing body.
type TypingPayload struct {
	Username string `json:"username"`
}

func encodeFrame(name string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: name, Data: raw})
}

// EncodeEvent maps a core event to its wire frame.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	switch evt := e.(type) {
	case event.HistoryLoaded:
		messages := evt.Messages
		if messages == nil {
			messages = []domain.Message{}
		}
		return encodeFrame(EventChatHistory, messages)
	case event.MessagePosted:
		return encodeFrame(EventChatMsg, evt.Message)
	case event.PresenceChanged:
		names := lo.Map(evt.Members, func(m domain.Identity, _ int) string { return m.String() })
		if names == nil {
			names = []string{}
		}
		return encodeFrame(EventPresence, names)
	case event.SystemNotice:
		return encodeFrame(EventSystemMsg, evt.Text)
	case event.TypingSignal:
		return encodeFrame(EventTyping, TypingPayload{Username: evt.Sender.String()})
	default:
		return nil, fmt.Errorf("unknown event type %T", e)
	}
}
