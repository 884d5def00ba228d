package event

import (
	"room-chat/domain"
)

// DomainEvent is anything the core pushes towards a connected peer.
type DomainEvent interface {
	Room() string
}

// HistoryLoaded carries the recent messages of a room, oldest first.
// Sent to the joining connection only, immediately after a join.
type HistoryLoaded struct {
	RoomName string
	Messages []domain.Message
}

func (e HistoryLoaded) Room() string { return e.RoomName }

// MessagePosted is a persisted chat message fanned out to the room.
type MessagePosted struct {
	Message domain.Message
}

func (e MessagePosted) Room() string { return e.Message.Room }

// PresenceChanged carries the full current member list of a room,
// not a diff. Dropped diffs would desynchronize viewers; a full list
// is always safe to apply.
type PresenceChanged struct {
	RoomName string
	Members  []domain.Identity
}

func (e PresenceChanged) Room() string { return e.RoomName }

// SystemNotice is a human-readable notice ("alice joined general",
// recoverable error reports, ...).
type SystemNotice struct {
	RoomName string
	Text     string
}

func (e SystemNotice) Room() string { return e.RoomName }

// TypingSignal is ephemeral: never persisted, best-effort delivery,
// excludes the sender.
type TypingSignal struct {
	RoomName string
	Sender   domain.Identity
}

func (e TypingSignal) Room() string { return e.RoomName }
