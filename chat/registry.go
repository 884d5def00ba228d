// Package chat holds the real-time core: room membership, broadcast,
// presence, typing relay and per-connection lifecycle. It orchestrates
// collaborators without containing transport or storage code.
package chat

import (
	"hash/fnv"
	"sort"
	"sync"

	"room-chat/contract"
	"room-chat/domain"
)

type members map[domain.Identity]struct{}

// shardCount bounds lock contention: operations on rooms living in
// different shards never block each other.
const shardCount = 16

type shard struct {
	mu    sync.RWMutex
	rooms map[string]members
}

// Registry is the single source of truth for room membership. Room sets
// are sharded by room name so a slow operation on one room does not
// head-of-line block unrelated rooms. It also resolves identities to
// their live delivery sinks.
type Registry struct {
	shards [shardCount]*shard

	sessionMu sync.RWMutex
	sessions  map[domain.Identity]contract.EventSink
}

func NewRegistry() *Registry {
	r := &Registry{sessions: make(map[domain.Identity]contract.EventSink)}
	for i := range r.shards {
		r.shards[i] = &shard{rooms: make(map[string]members)}
	}
	return r
}

func (r *Registry) shardFor(room string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(room))
	return r.shards[h.Sum32()%shardCount]
}

// Join adds an identity to a room, creating the room entry on first
// join. Idempotent: returns false when the identity was already a
// member and nothing changed.
func (r *Registry) Join(room string, identity domain.Identity) bool {
	s := r.shardFor(room)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.rooms[room]
	if !ok {
		set = make(members)
		s.rooms[room] = set
	}
	if _, exists := set[identity]; exists {
		return false
	}
	set[identity] = struct{}{}
	return true
}

// Leave removes an identity from a room. The room entry is dropped
// entirely once its member set is empty, so transient rooms never
// accumulate. Leaving a room one is not in is a no-op.
func (r *Registry) Leave(room string, identity domain.Identity) bool {
	s := r.shardFor(room)
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.rooms[room]
	if !ok {
		return false
	}
	if _, exists := set[identity]; !exists {
		return false
	}
	delete(set, identity)
	if len(set) == 0 {
		delete(s.rooms, room)
	}
	return true
}

// MembersOf returns a point-in-time snapshot of a room's members,
// sorted for stable presence payloads. Nil when the room is absent.
func (r *Registry) MembersOf(room string) []domain.Identity {
	s := r.shardFor(room)
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.rooms[room]
	if !ok {
		return nil
	}
	snapshot := make([]domain.Identity, 0, len(set))
	for identity := range set {
		snapshot = append(snapshot, identity)
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i] < snapshot[j] })
	return snapshot
}

// RoomsOf returns every room the identity currently belongs to.
func (r *Registry) RoomsOf(identity domain.Identity) []string {
	var rooms []string
	for _, s := range r.shards {
		s.mu.RLock()
		for room, set := range s.rooms {
			if _, ok := set[identity]; ok {
				rooms = append(rooms, room)
			}
		}
		s.mu.RUnlock()
	}
	sort.Strings(rooms)
	return rooms
}

// Attach registers the delivery sink for an identity. A reconnect under
// the same identity replaces the previous sink.
func (r *Registry) Attach(identity domain.Identity, sink contract.EventSink) {
	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()
	r.sessions[identity] = sink
}

// Detach removes the identity's sink, but only if it still is the given
// one. A stale disconnect racing a reconnect must not tear down the
// fresh session. The return reports whether the sink was still current:
// a false tells the caller its session has been superseded and the
// identity's room memberships no longer belong to it.
func (r *Registry) Detach(identity domain.Identity, sink contract.EventSink) bool {
	r.sessionMu.Lock()
	defer r.sessionMu.Unlock()
	if current, ok := r.sessions[identity]; ok && current == sink {
		delete(r.sessions, identity)
		return true
	}
	return false
}

// SinksFor resolves the current members of a room to their live sinks.
// Members without an attached sink (already gone) are skipped.
func (r *Registry) SinksFor(room string) map[domain.Identity]contract.EventSink {
	snapshot := r.MembersOf(room)
	if len(snapshot) == 0 {
		return nil
	}

	r.sessionMu.RLock()
	defer r.sessionMu.RUnlock()
	sinks := make(map[domain.Identity]contract.EventSink, len(snapshot))
	for _, identity := range snapshot {
		if sink, ok := r.sessions[identity]; ok {
			sinks[identity] = sink
		}
	}
	return sinks
}
