package service_test

import (
	"context"
	"sync"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

type broadcastCall struct {
	NS      domain.Namespace
	Room    string
	Event   string
	Payload interface{}
}

// fakeBroadcaster records every broadcast in call order.
type fakeBroadcaster struct {
	mu      sync.Mutex
	calls   []broadcastCall
	members map[string]int
}

func (b *fakeBroadcaster) MemberCount(ns domain.Namespace, room string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.members[string(ns)+"/"+room]
}

func (b *fakeBroadcaster) setMembers(ns domain.Namespace, room string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.members == nil {
		b.members = make(map[string]int)
	}
	b.members[string(ns)+"/"+room] = n
}

func (b *fakeBroadcaster) Broadcast(ns domain.Namespace, room, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{NS: ns, Room: room, Event: event, Payload: payload})
}

func (b *fakeBroadcaster) events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	for i, c := range b.calls {
		out[i] = c.Event
	}
	return out
}

func (b *fakeBroadcaster) last() broadcastCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[len(b.calls)-1]
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []*domain.RoundRecord
	err     error
}

func (r *fakeRecorder) RecordRound(_ context.Context, rec *domain.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

func (r *fakeRecorder) all() []*domain.RoundRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.RoundRecord(nil), r.records...)
}
