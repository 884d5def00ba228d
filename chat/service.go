package chat

import (
	"log/slog"

	"room-chat/contract"
	"room-chat/domain"
)

// Service wires the real-time collaborators together and mints sessions
// for freshly authenticated connections. All collaborators are injected
// so tests can substitute fakes.
type Service struct {
	registry    contract.IRegistry
	history     *HistoryLoader
	broadcaster *Broadcaster
	presence    *PresenceTracker
	typing      *TypingRelay
	log         *slog.Logger
}

func NewService(registry contract.IRegistry, history *HistoryLoader, broadcaster *Broadcaster,
	presence *PresenceTracker, typing *TypingRelay, log *slog.Logger) *Service {
	return &Service{
		registry:    registry,
		history:     history,
		broadcaster: broadcaster,
		presence:    presence,
		typing:      typing,
		log:         log,
	}
}

// NewSession creates the session for an authenticated connection and
// attaches its delivery sink. The identity is fixed for the session's
// lifetime; a reconnect under the same identity supersedes the previous
// sink.
func (s *Service) NewSession(identity domain.Identity, sink contract.EventSink) *Session {
	s.registry.Attach(identity, sink)
	return &Session{
		identity: identity,
		sink:     sink,
		service:  s,
		rooms:    make(map[string]struct{}),
	}
}
