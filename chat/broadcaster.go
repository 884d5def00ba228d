package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"room-chat/contract"
	"room-chat/domain"
	"room-chat/domain/event"
	"room-chat/errors"
	"room-chat/moderation"
	"room-chat/repositories"
	"room-chat/search"

	"github.com/abadojack/whatlanggo"
)

// Broadcaster persists an inbound message and fans it out to the
// members of the room at persistence-completion time. Sends within one
// room are serialized so every member observes the single order in
// which messages were persisted; sends to different rooms proceed
// concurrently.
type Broadcaster struct {
	registry  contract.IRegistry
	messages  repositories.IMessageRepository
	moderator *moderation.Moderator
	index     *search.MessageIndex
	log       *slog.Logger

	mu        sync.Mutex
	sendLocks map[string]*sync.Mutex
}

func NewBroadcaster(registry contract.IRegistry, messages repositories.IMessageRepository,
	moderator *moderation.Moderator, index *search.MessageIndex, log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		registry:  registry,
		messages:  messages,
		moderator: moderator,
		index:     index,
		log:       log,
		sendLocks: make(map[string]*sync.Mutex),
	}
}

// sendLock returns the per-room mutex serializing persist+fanout for
// that room. Lock entries are a few words each and survive room
// recreation, so they are never evicted.
func (b *Broadcaster) sendLock(room string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.sendLocks[room]
	if !ok {
		lock = &sync.Mutex{}
		b.sendLocks[room] = lock
	}
	return lock
}

// Send trims, moderates, persists and broadcasts one message.
// An empty text after trimming fails with ErrEmptyMessage before any
// persistence. A persistence failure prevents the broadcast entirely;
// the caller reports it to the sender only. Delivery targets are the
// members of the room at the instant persistence completes.
func (b *Broadcaster) Send(ctx context.Context, room string, sender domain.Identity, text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}

	if b.moderator != nil {
		sanitized, censored := b.moderator.Censor(text)
		if censored {
			info := whatlanggo.Detect(text)
			b.log.Warn("message censored",
				"room", room,
				"sender", sender,
				"lang", info.Lang.Iso6391())
			text = sanitized
		}
	}

	lock := b.sendLock(room)
	lock.Lock()
	defer lock.Unlock()

	message, err := b.messages.CreateMessage(room, sender, text)
	if err != nil {
		return domain.Message{}, fmt.Errorf("persist failed for room %q: %w", room, err)
	}

	if b.index != nil {
		if err := b.index.Index(message); err != nil {
			b.log.Error("failed to index message", "room", room, "id", message.ID, "err", err)
		}
	}

	for identity, sink := range b.registry.SinksFor(room) {
		if err := sink.Consume(ctx, event.MessagePosted{Message: message}); err != nil {
			b.log.Debug("message delivery skipped", "room", room, "member", identity, "err", err)
		}
	}
	return message, nil
}
