package service

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// Broadcaster fans an event out to every member of a room. The hub implements it.
type Broadcaster interface {
	Broadcast(ns domain.Namespace, room string, event string, payload interface{})
	// MemberCount lets a reaper confirm a swept room is still empty.
	MemberCount(ns domain.Namespace, room string) int
}

// RoundRecorder receives every settled round. Implementations must not block
// for long; the task enqueuer is the production implementation.
type RoundRecorder interface {
	RecordRound(ctx context.Context, record *domain.RoundRecord) error
}
