//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"room-chat/domain"
	"room-chat/domain/event"
)

// EventSink is the delivery end of one live connection. Implementations
// must not block: a slow consumer drops events rather than stalling fanout.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry is the single source of truth for room membership.
// All operations appear atomic per room; operations on distinct rooms
// do not contend with each other.
type IRegistry interface {
	Join(room string, identity domain.Identity) bool
	Leave(room string, identity domain.Identity) bool
	MembersOf(room string) []domain.Identity
	RoomsOf(identity domain.Identity) []string
	Attach(identity domain.Identity, sink EventSink)
	Detach(identity domain.Identity, sink EventSink) bool
	SinksFor(room string) map[domain.Identity]EventSink
}

// Verifier validates a bearer credential and resolves the identity
// behind it. Shared by the WebSocket handshake and the HTTP middleware.
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}
