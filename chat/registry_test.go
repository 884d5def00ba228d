package chat

import (
	"context"
	"testing"

	"room-chat/domain"
	"room-chat/domain/event"

	"github.com/stretchr/testify/require"
)

type nopSink struct{ name string }

func (s *nopSink) Consume(_ context.Context, _ event.DomainEvent) error {
	return nil
}

func TestRegistry_Join_Creates_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := domain.Identity("alice")

	// Given no room exists
	req.Empty(registry.MembersOf("general"))

	// When an identity joins
	changed := registry.Join("general", alice)

	// Then the room exists with exactly that member
	req.True(changed)
	req.Equal([]domain.Identity{alice}, registry.MembersOf("general"))
}

func TestRegistry_Join_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := domain.Identity("alice")

	// Given alice is already a member
	req.True(registry.Join("general", alice))

	// When she joins again
	changed := registry.Join("general", alice)

	// Then nothing changed
	req.False(changed)
	req.Equal([]domain.Identity{alice}, registry.MembersOf("general"))
}

func TestRegistry_Leave_Evicts_Empty_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := domain.Identity("alice")

	// Given a room with one member
	registry.Join("general", alice)

	// When the last member leaves
	changed := registry.Leave("general", alice)

	// Then the room is gone entirely, restoring the pre-join state
	req.True(changed)
	req.Nil(registry.MembersOf("general"))
	req.Empty(registry.RoomsOf(alice))
}

func TestRegistry_Leave_Unknown_Room_Is_Noop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.False(registry.Leave("nowhere", "alice"))
}

func TestRegistry_Leave_Keeps_Remaining_Members(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Join("general", "alice")
	registry.Join("general", "bob")

	req.True(registry.Leave("general", "alice"))
	req.Equal([]domain.Identity{"bob"}, registry.MembersOf("general"))
}

func TestRegistry_RoomsOf_Lists_All_Memberships(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := domain.Identity("alice")

	registry.Join("general", alice)
	registry.Join("tech", alice)
	registry.Join("random", "bob")

	req.Equal([]string{"general", "tech"}, registry.RoomsOf(alice))
}

func TestRegistry_SinksFor_Resolves_Attached_Members(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sinkAlice := &nopSink{name: "alice"}

	// Given alice has a sink and bob does not
	registry.Attach("alice", sinkAlice)
	registry.Join("general", "alice")
	registry.Join("general", "bob")

	// Then only alice is resolvable
	sinks := registry.SinksFor("general")
	req.Len(sinks, 1)
	req.Same(sinkAlice, sinks["alice"])
}

func TestRegistry_Detach_Ignores_Stale_Sink(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	oldSink := &nopSink{name: "old"}
	newSink := &nopSink{name: "new"}

	// Given a reconnect replaced alice's sink
	registry.Attach("alice", oldSink)
	registry.Attach("alice", newSink)
	registry.Join("general", "alice")

	// When the stale session detaches
	req.False(registry.Detach("alice", oldSink))

	// Then the fresh session is untouched
	sinks := registry.SinksFor("general")
	req.Same(newSink, sinks["alice"])

	// And detaching the current sink removes it
	req.True(registry.Detach("alice", newSink))
	req.Empty(registry.SinksFor("general"))
}
