package chat

import (
	"context"
	"log/slog"

	"room-chat/contract"
	"room-chat/domain/event"
)

// PresenceTracker announces membership changes. Every announcement is a
// pair: a presence event carrying the full current member list, and a
// human-readable notice. The pair goes to the whole room, never to the
// moving identity alone.
type PresenceTracker struct {
	registry contract.IRegistry
	log      *slog.Logger
}

func NewPresenceTracker(registry contract.IRegistry, log *slog.Logger) *PresenceTracker {
	return &PresenceTracker{registry: registry, log: log}
}

func (p *PresenceTracker) Announce(ctx context.Context, room, notice string) {
	members := p.registry.MembersOf(room)
	presence := event.PresenceChanged{RoomName: room, Members: members}
	system := event.SystemNotice{RoomName: room, Text: notice}

	for identity, sink := range p.registry.SinksFor(room) {
		if err := sink.Consume(ctx, presence); err != nil {
			p.log.Debug("presence delivery skipped", "room", room, "member", identity, "err", err)
			continue
		}
		if err := sink.Consume(ctx, system); err != nil {
			p.log.Debug("notice delivery skipped", "room", room, "member", identity, "err", err)
		}
	}
}
