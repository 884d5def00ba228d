package chat

import (
	"context"
	goerrors "errors"
	"fmt"
	"sync"

	"room-chat/contract"
	"room-chat/domain"
	"room-chat/domain/event"
	"room-chat/errors"
)

// Session drives the lifecycle of one authenticated connection:
// authenticated with no rooms, then joining and leaving rooms, then a
// terminal disconnect. The session tracks its own room set so that
// disconnect cleanup is a pure local iteration.
type Session struct {
	identity domain.Identity
	sink     contract.EventSink
	service  *Service

	mu    sync.Mutex
	rooms map[string]struct{}
	once  sync.Once
}

func (s *Session) Identity() domain.Identity {
	return s.identity
}

// JoinRoom makes the session a member of a room. The joining connection
// receives the recent history first; if membership actually changed,
// the whole room then receives the presence refresh and join notice.
// A history load failure downgrades to a notice: the join still holds.
func (s *Session) JoinRoom(ctx context.Context, room string) {
	room = domain.NormalizeRoom(room)
	if room == "" {
		return
	}

	s.mu.Lock()
	s.rooms[room] = struct{}{}
	s.mu.Unlock()

	joined := s.service.registry.Join(room, s.identity)

	history, err := s.service.history.Load(room)
	if err != nil {
		s.service.log.Error("history load failed", "room", room, "identity", s.identity, "err", err)
		s.notify(ctx, event.SystemNotice{RoomName: room, Text: fmt.Sprintf("could not load history for %s", room)})
	}
	s.notify(ctx, event.HistoryLoaded{RoomName: room, Messages: history})

	if joined {
		s.service.presence.Announce(ctx, room, fmt.Sprintf("%s joined %s", s.identity, room))
	}
}

// LeaveRoom removes the session from a room. Leaving a room the session
// never joined is a no-op, not an error.
func (s *Session) LeaveRoom(ctx context.Context, room string) {
	room = domain.NormalizeRoom(room)
	if room == "" {
		return
	}

	s.mu.Lock()
	delete(s.rooms, room)
	s.mu.Unlock()

	if s.service.registry.Leave(room, s.identity) {
		s.service.presence.Announce(ctx, room, fmt.Sprintf("%s left %s", s.identity, room))
	}
}

// PostMessage sends one chat message to a room. An empty text is
// silently dropped. A persistence failure is reported to this session
// only; the room never sees it.
func (s *Session) PostMessage(ctx context.Context, room, text string) error {
	room = domain.NormalizeRoom(room)
	if room == "" {
		return nil
	}

	_, err := s.service.broadcaster.Send(ctx, room, s.identity, text)
	switch {
	case err == nil:
		return nil
	case goerrors.Is(err, errors.ErrEmptyMessage):
		return err
	default:
		s.notify(ctx, event.SystemNotice{RoomName: room, Text: "your message could not be delivered"})
		return err
	}
}

// Typing relays an ephemeral typing signal to the other room members.
func (s *Session) Typing(ctx context.Context, room string) {
	room = domain.NormalizeRoom(room)
	if room == "" {
		return
	}
	s.service.typing.Relay(ctx, room, s.identity)
}

// Disconnect tears the session down: every room currently held gets a
// leave with a "disconnected" notice, then the delivery sink is
// detached. Runs exactly once no matter how many paths signal it.
// When a reconnect under the same identity has already replaced this
// session, the room memberships belong to the fresh session and are
// left untouched.
func (s *Session) Disconnect(ctx context.Context) {
	s.once.Do(func() {
		s.mu.Lock()
		held := make([]string, 0, len(s.rooms))
		for room := range s.rooms {
			held = append(held, room)
		}
		s.rooms = make(map[string]struct{})
		s.mu.Unlock()

		if !s.service.registry.Detach(s.identity, s.sink) {
			s.service.log.Debug("superseded session disconnected", "identity", s.identity)
			return
		}

		for _, room := range held {
			if s.service.registry.Leave(room, s.identity) {
				s.service.presence.Announce(ctx, room, fmt.Sprintf("%s disconnected", s.identity))
			}
		}
	})
}

func (s *Session) notify(ctx context.Context, e event.DomainEvent) {
	if err := s.sink.Consume(ctx, e); err != nil {
		s.service.log.Debug("session delivery skipped", "identity", s.identity, "err", err)
	}
}
