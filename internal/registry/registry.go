// Package registry tracks which live participant belongs to which room within
// one namespace. It is the only owner of room membership.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/clock"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"

	"github.com/sirupsen/logrus"
)

type roomEntry struct {
	members   map[domain.ParticipantID]struct{}
	emptiedAt time.Time // zero while the room has members
}

// Registry is a per-namespace membership table. A participant belongs to at
// most one room of the namespace at a time.
type Registry struct {
	ns    domain.Namespace
	clock clock.Clock

	mu       sync.RWMutex
	rooms    map[string]*roomEntry
	memberOf map[domain.ParticipantID]string
}

// New creates an empty registry for ns.
func New(ns domain.Namespace, clk clock.Clock) *Registry {
	if clk == nil {
		clk = clock.Real()
	}
	return &Registry{
		ns:       ns,
		clock:    clk,
		rooms:    make(map[string]*roomEntry),
		memberOf: make(map[domain.ParticipantID]string),
	}
}

// Namespace returns the namespace this registry serves.
func (r *Registry) Namespace() domain.Namespace { return r.ns }

// Join adds p to room, first removing it from any other room of the namespace.
// previous is the room p left (empty if none); joined is false when p was
// already a member of room.
func (r *Registry) Join(p domain.ParticipantID, room string) (previous string, joined bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.memberOf[p]; ok {
		if current == room {
			return "", false
		}
		r.removeLocked(p, current)
		previous = current
	}

	entry, ok := r.rooms[room]
	if !ok {
		entry = &roomEntry{members: make(map[domain.ParticipantID]struct{})}
		r.rooms[room] = entry
		logrus.WithFields(logrus.Fields{"namespace": r.ns, "room": room}).Debug("Registry: room created")
	}
	entry.members[p] = struct{}{}
	entry.emptiedAt = time.Time{}
	r.memberOf[p] = room
	return previous, true
}

// Leave removes p from room. It reports false if p was not a member.
func (r *Registry) Leave(p domain.ParticipantID, room string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.memberOf[p]; !ok || current != room {
		return false
	}
	r.removeLocked(p, room)
	return true
}

// OnDisconnect removes p from every room it belongs to and returns those rooms.
func (r *Registry) OnDisconnect(p domain.ParticipantID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.memberOf[p]
	if !ok {
		return nil
	}
	r.removeLocked(p, room)
	return []string{room}
}

// removeLocked must be called with mu held.
func (r *Registry) removeLocked(p domain.ParticipantID, room string) {
	delete(r.memberOf, p)
	entry, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(entry.members, p)
	if len(entry.members) == 0 {
		entry.emptiedAt = r.clock.Now()
	}
}

// MembersOf returns a snapshot of the participants currently in room, sorted.
func (r *Registry) MembersOf(room string) []domain.ParticipantID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.rooms[room]
	if !ok || len(entry.members) == 0 {
		return nil
	}
	out := make([]domain.ParticipantID, 0, len(entry.members))
	for p := range entry.members {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the number of members in room.
func (r *Registry) Count(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.rooms[room]; ok {
		return len(entry.members)
	}
	return 0
}

// IsMember reports whether p is currently in room.
func (r *Registry) IsMember(p domain.ParticipantID, room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	current, ok := r.memberOf[p]
	return ok && current == room
}

// RoomOf returns the room p is in, if any.
func (r *Registry) RoomOf(p domain.ParticipantID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.memberOf[p]
	return room, ok
}

// Sweep drops room entries that have been empty for at least idle and returns
// their ids. Rooms that emptied more recently are kept so a quick rejoin finds
// the same room state.
func (r *Registry) Sweep(idle time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	var swept []string
	for id, entry := range r.rooms {
		if len(entry.members) > 0 || entry.emptiedAt.IsZero() {
			continue
		}
		if now.Sub(entry.emptiedAt) >= idle {
			delete(r.rooms, id)
			swept = append(swept, id)
		}
	}
	sort.Strings(swept)
	return swept
}
