package chat

import (
	"context"
	"log/slog"

	"room-chat/contract"
	"room-chat/domain"
	"room-chat/domain/event"
)

// TypingRelay forwards typing signals to every member of the room
// except the sender. Fire and forget: no persistence, no ordering,
// dropped signals under load are acceptable. Auto-clearing a stale
// indicator is a viewer concern.
type TypingRelay struct {
	registry contract.IRegistry
	log      *slog.Logger
}

func NewTypingRelay(registry contract.IRegistry, log *slog.Logger) *TypingRelay {
	return &TypingRelay{registry: registry, log: log}
}

func (t *TypingRelay) Relay(ctx context.Context, room string, sender domain.Identity) {
	signal := event.TypingSignal{RoomName: room, Sender: sender}
	for identity, sink := range t.registry.SinksFor(room) {
		if identity == sender {
			continue
		}
		if err := sink.Consume(ctx, signal); err != nil {
			t.log.Debug("typing delivery skipped", "room", room, "member", identity, "err", err)
		}
	}
}
