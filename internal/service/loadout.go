package service

import (
	"context"
	"sync"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/dto"

	"github.com/sirupsen/logrus"
)

// MaxDraftStickers bounds the stickers a draft may carry.
const MaxDraftStickers = 5

type voteKey struct {
	userID    uint
	loadoutID string
}

type loadoutRoom struct {
	mu       sync.Mutex
	draft    *domain.Draft
	tally    map[string]int
	voted    map[voteKey]struct{}
	released bool
}

// LoadoutService holds the per-room shared draft and vote tally. Drafts are
// last-writer-wins; votes are de-duplicated per (user, loadout) within a room.
type LoadoutService struct {
	bc Broadcaster

	mu    sync.Mutex
	rooms map[string]*loadoutRoom
}

func NewLoadoutService(bc Broadcaster) *LoadoutService {
	if bc == nil {
		panic("Broadcaster cannot be nil for LoadoutService")
	}
	return &LoadoutService{bc: bc, rooms: make(map[string]*loadoutRoom)}
}

func (s *LoadoutService) withRoom(room string, create bool, fn func(r *loadoutRoom)) bool {
	for {
		s.mu.Lock()
		r, ok := s.rooms[room]
		if !ok {
			if !create {
				s.mu.Unlock()
				return false
			}
			r = &loadoutRoom{tally: make(map[string]int), voted: make(map[voteKey]struct{})}
			s.rooms[room] = r
		}
		s.mu.Unlock()

		r.mu.Lock()
		if r.released {
			r.mu.Unlock()
			continue
		}
		fn(r)
		r.mu.Unlock()
		return true
	}
}

// SubmitDraft replaces the room's draft and broadcasts it. Catalog existence
// is not checked here; only persisted loadouts are validated against it.
func (s *LoadoutService) SubmitDraft(ctx context.Context, room string, draft domain.Draft) error {
	if draft.WeaponID == "" || draft.SkinID == "" || len(draft.Stickers) > MaxDraftStickers {
		return ErrInvalidPayload
	}
	draft = draft.Clone()
	if draft.Stickers == nil {
		draft.Stickers = []string{}
	}
	s.withRoom(room, true, func(r *loadoutRoom) {
		r.draft = &draft
		s.bc.Broadcast(domain.NamespaceLoadout, room, dto.EventLoadoutUpdated, dto.LoadoutUpdated{Loadout: draft.Clone()})
	})
	logrus.WithFields(logrus.Fields{"room": room, "weapon_id": draft.WeaponID, "skin_id": draft.SkinID}).Debug("Loadout draft updated")
	return nil
}

// GetDraft returns a copy of the latest draft, if any.
func (s *LoadoutService) GetDraft(room string) (domain.Draft, bool) {
	var out domain.Draft
	var ok bool
	s.withRoom(room, false, func(r *loadoutRoom) {
		if r.draft != nil {
			out = r.draft.Clone()
			ok = true
		}
	})
	return out, ok
}

// CastVote records one vote by an authenticated user and broadcasts the new
// tally. claimedUserID, when set, must match the caller.
func (s *LoadoutService) CastVote(ctx context.Context, room, loadoutID string, userID uint, claimedUserID *uint) (int, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room": room, "loadout_id": loadoutID, "user_id": userID, "operation": "CastVote"})
	if userID == 0 {
		return 0, ErrUnauthenticated
	}
	if claimedUserID != nil && *claimedUserID != userID {
		logCtx.WithField("claimed_user_id", *claimedUserID).Warn("Vote rejected, identity mismatch")
		return 0, ErrIdentityMismatch
	}
	if loadoutID == "" {
		return 0, ErrInvalidPayload
	}

	var votes int
	var voteErr error
	s.withRoom(room, true, func(r *loadoutRoom) {
		key := voteKey{userID: userID, loadoutID: loadoutID}
		if _, dup := r.voted[key]; dup {
			voteErr = ErrDuplicateVote
			return
		}
		r.voted[key] = struct{}{}
		r.tally[loadoutID]++
		votes = r.tally[loadoutID]
		s.bc.Broadcast(domain.NamespaceLoadout, room, dto.EventVoteReceived, dto.VoteReceived{
			LoadoutID: loadoutID,
			UserID:    userID,
			Votes:     votes,
		})
	})
	if voteErr != nil {
		logCtx.Info("Duplicate vote rejected")
		return 0, voteErr
	}
	logCtx.WithField("votes", votes).Debug("Vote recorded")
	return votes, nil
}

// Tally returns a copy of the room's vote counts.
func (s *LoadoutService) Tally(room string) map[string]int {
	out := make(map[string]int)
	s.withRoom(room, false, func(r *loadoutRoom) {
		for id, n := range r.tally {
			out[id] = n
		}
	})
	return out
}

// JoinRoom runs join under the room lock, then hands the current draft, if
// any, to catchUp, so a concurrent update reaches the joiner exactly once.
func (s *LoadoutService) JoinRoom(room string, join func(), catchUp func(dto.LoadoutUpdated)) {
	s.withRoom(room, true, func(r *loadoutRoom) {
		join()
		if r.draft != nil {
			catchUp(dto.LoadoutUpdated{Loadout: r.draft.Clone()})
		}
	})
}

// ReleaseRoom drops a swept room's draft and tally unless the room gained
// members after the sweep.
func (s *LoadoutService) ReleaseRoom(ns domain.Namespace, room string) {
	if ns != domain.NamespaceLoadout {
		return
	}
	s.mu.Lock()
	r, ok := s.rooms[room]
	s.mu.Unlock()
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released || s.bc.MemberCount(domain.NamespaceLoadout, room) > 0 {
		return
	}
	s.mu.Lock()
	if s.rooms[room] == r {
		delete(s.rooms, room)
	}
	s.mu.Unlock()
	r.released = true
	logrus.WithField("room", room).Debug("Loadout room state released")
}
