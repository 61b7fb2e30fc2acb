package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/dto"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/registry"

	"github.com/sirupsen/logrus"
)

// Package-level WebSocket constants shared by hub and client.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Frames buffered per peer before deliveries are dropped.
	sendBufferSize = 256
)

// Peer is a live connection the hub can deliver frames to.
type Peer interface {
	ID() domain.ParticipantID
	// Enqueue must not block; it reports false when the frame was dropped.
	Enqueue(frame []byte) bool
	Close()
}

// Dispatcher handles inbound frames. The WebSocket router implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, p domain.Participant, frame dto.Frame)
}

// RoomReaper releases per-room state once a room is garbage-collected.
type RoomReaper interface {
	ReleaseRoom(ns domain.Namespace, room string)
}

type peerEntry struct {
	peer        Peer
	participant domain.Participant
}

type roomKey struct {
	ns   domain.Namespace
	room string
}

// Hub owns live connections and the per-namespace session registries, and
// fans events out to room members.
type Hub struct {
	registries  map[domain.Namespace]*registry.Registry
	idleTimeout time.Duration

	peersMu sync.RWMutex
	peers   map[domain.ParticipantID]peerEntry

	// One delivery lock per room keeps broadcasts from concurrent callers
	// from interleaving within that room.
	locksMu   sync.Mutex
	roomLocks map[roomKey]*sync.Mutex

	reapersMu sync.RWMutex
	reapers   []RoomReaper

	dispatcher Dispatcher
}

// NewHub creates a hub over the given registries. idleTimeout is how long an
// empty room is kept before SweepIdleRooms releases it.
func NewHub(idleTimeout time.Duration, registries ...*registry.Registry) *Hub {
	if len(registries) == 0 {
		panic("Hub needs at least one registry")
	}
	h := &Hub{
		registries:  make(map[domain.Namespace]*registry.Registry, len(registries)),
		idleTimeout: idleTimeout,
		peers:       make(map[domain.ParticipantID]peerEntry),
		roomLocks:   make(map[roomKey]*sync.Mutex),
	}
	for _, r := range registries {
		h.registries[r.Namespace()] = r
	}
	return h
}

// SetDispatcher wires the inbound frame handler. Must be called before serving.
func (h *Hub) SetDispatcher(d Dispatcher) { h.dispatcher = d }

// AddReaper registers a component to be told about swept rooms.
func (h *Hub) AddReaper(r RoomReaper) {
	h.reapersMu.Lock()
	defer h.reapersMu.Unlock()
	h.reapers = append(h.reapers, r)
}

// Register makes peer reachable and greets it.
func (h *Hub) Register(peer Peer, p domain.Participant) {
	if peer == nil {
		logrus.Error("Hub: Attempted to register a nil peer")
		return
	}
	h.peersMu.Lock()
	h.peers[p.ID] = peerEntry{peer: peer, participant: p}
	h.peersMu.Unlock()

	logrus.WithFields(logrus.Fields{
		"participant_id": p.ID,
		"user_id":        p.UserID,
	}).Info("Peer registered to Hub")

	h.Send(p.ID, dto.EventConnectionResponse, dto.ConnectionResponse{Status: "connected", ParticipantID: string(p.ID)})
}

// Unregister is the disconnect path: it removes the participant from every
// room of every namespace before the peer is forgotten and closed.
func (h *Hub) Unregister(id domain.ParticipantID) {
	logCtx := logrus.WithField("participant_id", id)

	for ns, reg := range h.registries {
		for _, room := range reg.OnDisconnect(id) {
			logCtx.WithFields(logrus.Fields{"namespace": ns, "room": room}).Debug("Participant removed from room on disconnect")
			h.Broadcast(ns, room, dto.EventRoomLeft, dto.RoomEvent{Room: room, ParticipantID: string(id)})
		}
	}

	h.peersMu.Lock()
	entry, ok := h.peers[id]
	delete(h.peers, id)
	h.peersMu.Unlock()
	if !ok {
		logCtx.Warn("Peer not found during unregister")
		return
	}
	entry.peer.Close()
	logCtx.Info("Peer unregistered from Hub")
}

// Participant returns the identity bound to a connected peer.
func (h *Hub) Participant(id domain.ParticipantID) (domain.Participant, bool) {
	h.peersMu.RLock()
	defer h.peersMu.RUnlock()
	entry, ok := h.peers[id]
	return entry.participant, ok
}

// Join puts p into room of ns, leaving its previous room of that namespace.
func (h *Hub) Join(ns domain.Namespace, p domain.ParticipantID, room string) {
	reg := h.registry(ns)
	previous, joined := reg.Join(p, room)
	if previous != "" {
		h.Broadcast(ns, previous, dto.EventRoomLeft, dto.RoomEvent{Room: previous, ParticipantID: string(p)})
	}
	if !joined {
		// Already a member; confirm to the caller only.
		h.Send(p, dto.EventRoomJoined, dto.RoomEvent{Room: room, ParticipantID: string(p)})
		return
	}
	h.Broadcast(ns, room, dto.EventRoomJoined, dto.RoomEvent{Room: room, ParticipantID: string(p)})
}

// Leave removes p from room and tells both the room and the leaver.
func (h *Hub) Leave(ns domain.Namespace, p domain.ParticipantID, room string) {
	reg := h.registry(ns)
	payload := dto.RoomEvent{Room: room, ParticipantID: string(p)}
	if reg.Leave(p, room) {
		h.Broadcast(ns, room, dto.EventRoomLeft, payload)
	}
	h.Send(p, dto.EventRoomLeft, payload)
}

// IsMember reports whether p is in room of ns.
func (h *Hub) IsMember(ns domain.Namespace, p domain.ParticipantID, room string) bool {
	return h.registry(ns).IsMember(p, room)
}

// MemberCount returns the live member count of room in ns.
func (h *Hub) MemberCount(ns domain.Namespace, room string) int {
	return h.registry(ns).Count(room)
}

func (h *Hub) registry(ns domain.Namespace) *registry.Registry {
	reg, ok := h.registries[ns]
	if !ok {
		panic("hub: unknown namespace " + string(ns))
	}
	return reg
}

// lockRoom acquires the room's delivery lock. A lock the sweeper dropped
// while we waited on it is abandoned in favour of the current one.
func (h *Hub) lockRoom(ns domain.Namespace, room string) *sync.Mutex {
	key := roomKey{ns: ns, room: room}
	for {
		h.locksMu.Lock()
		l, ok := h.roomLocks[key]
		if !ok {
			l = &sync.Mutex{}
			h.roomLocks[key] = l
		}
		h.locksMu.Unlock()

		l.Lock()
		h.locksMu.Lock()
		current := h.roomLocks[key] == l
		h.locksMu.Unlock()
		if current {
			return l
		}
		l.Unlock()
	}
}

// Broadcast delivers event to every member of room at the moment of the call.
// A peer that cannot take the frame is logged and skipped; the caller never
// sees delivery failures.
func (h *Hub) Broadcast(ns domain.Namespace, room string, event string, payload interface{}) {
	logCtx := logrus.WithFields(logrus.Fields{
		"namespace": ns,
		"room":      room,
		"event":     event,
	})
	frame, err := json.Marshal(dto.OutFrame{Event: event, Data: payload})
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal broadcast frame")
		return
	}

	lock := h.lockRoom(ns, room)
	defer lock.Unlock()

	members := h.registry(ns).MembersOf(room)
	if len(members) == 0 {
		return
	}

	h.peersMu.RLock()
	recipients := make([]Peer, 0, len(members))
	for _, id := range members {
		if entry, ok := h.peers[id]; ok {
			recipients = append(recipients, entry.peer)
		}
	}
	h.peersMu.RUnlock()

	logCtx.WithField("recipient_count", len(recipients)).Debug("Broadcasting event to room")
	for _, peer := range recipients {
		if !peer.Enqueue(frame) {
			logCtx.WithField("participant_id", peer.ID()).Warn("Peer send queue full or closed during broadcast, skipping")
		}
	}
}

// Send delivers event to a single participant. It reports whether the frame
// was queued.
func (h *Hub) Send(id domain.ParticipantID, event string, payload interface{}) bool {
	h.peersMu.RLock()
	entry, ok := h.peers[id]
	h.peersMu.RUnlock()
	if !ok {
		return false
	}
	frame, err := json.Marshal(dto.OutFrame{Event: event, Data: payload})
	if err != nil {
		logrus.WithError(err).WithField("event", event).Error("Failed to marshal frame")
		return false
	}
	if !entry.peer.Enqueue(frame) {
		logrus.WithFields(logrus.Fields{"participant_id": id, "event": event}).Warn("Peer send queue full or closed, frame dropped")
		return false
	}
	return true
}

// HandleFrame decodes one inbound frame and hands it to the dispatcher.
func (h *Hub) HandleFrame(ctx context.Context, id domain.ParticipantID, raw []byte) {
	p, ok := h.Participant(id)
	if !ok {
		return
	}
	var frame dto.Frame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
		logrus.WithField("participant_id", id).Debug("Dropping malformed frame")
		h.Send(id, dto.EventError, dto.ErrorDTO{Message: "malformed frame"})
		return
	}
	if h.dispatcher == nil {
		logrus.Error("Hub: no dispatcher configured")
		return
	}
	h.dispatcher.Dispatch(ctx, p, frame)
}

// SweepIdleRooms garbage-collects rooms that have been empty for longer than
// the idle timeout and notifies the reapers. Reapers run after the registry
// lock is released, so each must re-check MemberCount before dropping state.
func (h *Hub) SweepIdleRooms() map[domain.Namespace][]string {
	swept := make(map[domain.Namespace][]string)
	for ns, reg := range h.registries {
		rooms := reg.Sweep(h.idleTimeout)
		if len(rooms) == 0 {
			continue
		}
		swept[ns] = rooms
		h.locksMu.Lock()
		for _, room := range rooms {
			key := roomKey{ns: ns, room: room}
			l, ok := h.roomLocks[key]
			// Leave locks held by an in-flight broadcast and locks of rooms
			// that were rejoined.
			if !ok || !l.TryLock() {
				continue
			}
			if reg.Count(room) == 0 {
				delete(h.roomLocks, key)
			}
			l.Unlock()
		}
		h.locksMu.Unlock()
	}

	h.reapersMu.RLock()
	reapers := append([]RoomReaper(nil), h.reapers...)
	h.reapersMu.RUnlock()
	for ns, rooms := range swept {
		for _, room := range rooms {
			for _, r := range reapers {
				r.ReleaseRoom(ns, room)
			}
		}
		logrus.WithFields(logrus.Fields{"namespace": ns, "rooms": len(rooms)}).Info("Idle rooms released")
	}
	return swept
}

// Shutdown closes every connected peer.
func (h *Hub) Shutdown() {
	h.peersMu.RLock()
	peers := make([]Peer, 0, len(h.peers))
	for _, entry := range h.peers {
		peers = append(peers, entry.peer)
	}
	h.peersMu.RUnlock()
	for _, p := range peers {
		p.Close()
	}
	logrus.WithField("peers", len(peers)).Info("Hub shut down")
}
