package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/clock"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/dto"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BombConfig bounds the time limits a round may request.
type BombConfig struct {
	DefaultTimeLimit time.Duration
	MaxTimeLimit     time.Duration
}

// SequencePicker draws the sequence for a new round.
type SequencePicker func() (string, error)

// RandomSequence picks uniformly from domain.SequenceCorpus.
func RandomSequence() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(domain.SequenceCorpus))))
	if err != nil {
		return "", fmt.Errorf("failed to draw sequence: %w", err)
	}
	return domain.SequenceCorpus[n.Int64()], nil
}

// SettleRequest is a participant's attempt to close the active round. The
// Claimed* fields are client assertions checked against server state.
type SettleRequest struct {
	RoundID         string
	Submitted       string
	UserID          uint
	ClaimedExpected *string
	ClaimedSuccess  *bool
	ClaimedReward   *int
}

type bombRoom struct {
	mu       sync.Mutex
	state    domain.RoundState
	round    *domain.Round
	timer    clock.Timer
	released bool
}

// BombService runs the per-room bomb defusal state machine
// Idle -> RoundActive -> RoundSettled -> RoundActive ...
// All mutations of one room happen under that room's lock, and the resulting
// broadcast is issued before the lock is released.
type BombService struct {
	bc       Broadcaster
	recorder RoundRecorder
	clock    clock.Clock
	pick     SequencePicker
	cfg      BombConfig

	mu    sync.Mutex
	rooms map[string]*bombRoom
}

// NewBombService creates a BombService. pick may be nil to use RandomSequence.
func NewBombService(bc Broadcaster, recorder RoundRecorder, clk clock.Clock, pick SequencePicker, cfg BombConfig) *BombService {
	if bc == nil {
		panic("Broadcaster cannot be nil for BombService")
	}
	if recorder == nil {
		panic("RoundRecorder cannot be nil for BombService")
	}
	if clk == nil {
		clk = clock.Real()
	}
	if pick == nil {
		pick = RandomSequence
	}
	if cfg.DefaultTimeLimit <= 0 {
		cfg.DefaultTimeLimit = domain.DefaultTimeLimit
	}
	if cfg.MaxTimeLimit < cfg.DefaultTimeLimit {
		cfg.MaxTimeLimit = 10 * cfg.DefaultTimeLimit
	}
	return &BombService{
		bc:       bc,
		recorder: recorder,
		clock:    clk,
		pick:     pick,
		cfg:      cfg,
		rooms:    make(map[string]*bombRoom),
	}
}

// withRoom runs fn under the room's lock, creating the room entry if needed.
func (s *BombService) withRoom(room string, create bool, fn func(r *bombRoom)) bool {
	for {
		s.mu.Lock()
		r, ok := s.rooms[room]
		if !ok {
			if !create {
				s.mu.Unlock()
				return false
			}
			r = &bombRoom{state: domain.RoundIdle}
			s.rooms[room] = r
		}
		s.mu.Unlock()

		r.mu.Lock()
		if r.released {
			// Swept between lookup and lock; retry against a fresh entry.
			r.mu.Unlock()
			continue
		}
		fn(r)
		r.mu.Unlock()
		return true
	}
}

// StartRound opens a new round with a server-drawn sequence. A second start
// while a round is active is rejected.
func (s *BombService) StartRound(ctx context.Context, room string, requestedSeconds *int) (*domain.Round, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room": room, "operation": "StartRound"})

	limit := s.cfg.DefaultTimeLimit
	if requestedSeconds != nil {
		// Range-check the raw seconds; converting first can overflow.
		if *requestedSeconds <= 0 || int64(*requestedSeconds) > int64(s.cfg.MaxTimeLimit/time.Second) {
			logCtx.WithField("time_limit", *requestedSeconds).Warn("Rejected round with invalid time limit")
			return nil, ErrInvalidTimeLimit
		}
		limit = time.Duration(*requestedSeconds) * time.Second
	}

	sequence, err := s.pick()
	if err != nil {
		logCtx.WithError(err).Error("Failed to pick sequence")
		return nil, ErrInternalServer
	}

	var started *domain.Round
	var startErr error
	s.withRoom(room, true, func(r *bombRoom) {
		if r.state == domain.RoundActive {
			startErr = ErrRoundInProgress
			return
		}
		round := &domain.Round{
			ID:        uuid.NewString(),
			Room:      room,
			Sequence:  sequence,
			TimeLimit: limit,
			StartedAt: s.clock.Now(),
		}
		roundID := round.ID
		r.state = domain.RoundActive
		r.round = round
		r.timer = s.clock.AfterFunc(limit, func() { s.expire(room, roundID) })

		s.bc.Broadcast(domain.NamespaceBomb, room, dto.EventGameStarted, dto.GameStarted{
			RoundID:   round.ID,
			Sequence:  round.Sequence,
			TimeLimit: int(limit / time.Second),
		})
		started = copyRound(round)
	})
	if startErr != nil {
		logCtx.Info("Start rejected, round already active")
		return nil, startErr
	}
	logCtx.WithFields(logrus.Fields{"round_id": started.ID, "time_limit": limit}).Info("Round started")
	return started, nil
}

// RelayInput appends a key press to the active round log and relays it
// verbatim. Position and character are not validated.
func (s *BombService) RelayInput(ctx context.Context, room, roundID string, p domain.ParticipantID, input string, position int) error {
	var relayErr error
	found := s.withRoom(room, false, func(r *bombRoom) {
		if relayErr = r.checkActive(roundID); relayErr != nil {
			return
		}
		r.round.Inputs = append(r.round.Inputs, domain.InputEvent{
			ParticipantID: p,
			Input:         input,
			Position:      position,
			At:            s.clock.Now(),
		})
		s.bc.Broadcast(domain.NamespaceBomb, room, dto.EventInputReceived, dto.InputReceived{Input: input, Position: position})
	})
	if !found {
		return ErrNoActiveRound
	}
	return relayErr
}

// RelayHint forwards a cooperative hint while a round is active.
func (s *BombService) RelayHint(ctx context.Context, room, hint string) error {
	if hint == "" {
		return ErrInvalidPayload
	}
	var relayErr error
	found := s.withRoom(room, false, func(r *bombRoom) {
		if relayErr = r.checkActive(""); relayErr != nil {
			return
		}
		s.bc.Broadcast(domain.NamespaceBomb, room, dto.EventHintReceived, dto.HintReceived{Hint: hint})
	})
	if !found {
		return ErrNoActiveRound
	}
	return relayErr
}

// SettleRound verifies a submission against the server-tracked sequence. The
// elapsed time is measured from the round start; a submission at or after the
// deadline settles the round as a timeout.
func (s *BombService) SettleRound(ctx context.Context, room string, req SettleRequest) (*domain.Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room": room, "operation": "SettleRound", "user_id": req.UserID})

	var (
		outcome   *domain.Outcome
		record    *domain.RoundRecord
		settleErr error
	)
	found := s.withRoom(room, false, func(r *bombRoom) {
		if settleErr = r.checkActive(req.RoundID); settleErr != nil {
			return
		}
		round := r.round
		now := s.clock.Now()

		if !now.Before(round.Deadline()) {
			record = s.settleLocked(r, s.timeoutOutcome(round, now))
			outcome = copyOutcome(round.Outcome)
			return
		}

		if req.ClaimedExpected != nil && *req.ClaimedExpected != round.Sequence {
			settleErr = ErrOutcomeConflict
			return
		}
		elapsed := now.Sub(round.StartedAt).Seconds()
		result := domain.Verify(req.Submitted, round.Sequence, elapsed)
		if req.ClaimedSuccess != nil && *req.ClaimedSuccess != result.Success {
			settleErr = ErrOutcomeConflict
			return
		}
		if req.ClaimedReward != nil && *req.ClaimedReward > result.Reward {
			settleErr = ErrOutcomeConflict
			return
		}
		result.Reason = domain.SettledBySubmission
		result.SettledBy = req.UserID
		result.CompletedAt = now
		record = s.settleLocked(r, result)
		outcome = copyOutcome(round.Outcome)
	})
	if !found {
		return nil, ErrNoActiveRound
	}
	if settleErr != nil {
		logCtx.WithError(settleErr).Info("Settle rejected")
		return nil, settleErr
	}

	s.record(ctx, record)
	logCtx.WithFields(logrus.Fields{
		"round_id": record.RoundID,
		"success":  outcome.Success,
		"reward":   outcome.Reward,
		"reason":   outcome.Reason,
	}).Info("Round settled")
	return outcome, nil
}

// GetRound returns the room's state and a copy of its current round.
func (s *BombService) GetRound(room string) (domain.RoundState, *domain.Round) {
	state := domain.RoundIdle
	var round *domain.Round
	s.withRoom(room, false, func(r *bombRoom) {
		state = r.state
		round = copyRound(r.round)
	})
	return state, round
}

// JoinRoom runs join under the room lock, then hands the active round, if
// any, to catchUp. A start or settle lands either wholly before the join, in
// which case catchUp sees it, or wholly after, in which case the joiner gets
// the broadcast.
func (s *BombService) JoinRoom(room string, join func(), catchUp func(dto.GameStarted)) {
	s.withRoom(room, true, func(r *bombRoom) {
		join()
		if r.state != domain.RoundActive || r.round == nil {
			return
		}
		catchUp(dto.GameStarted{
			RoundID:   r.round.ID,
			Sequence:  r.round.Sequence,
			TimeLimit: int(r.round.TimeLimit / time.Second),
		})
	})
}

// ReleaseRoom drops a swept room's state and cancels its deadline. A room
// that gained members after the sweep is kept.
func (s *BombService) ReleaseRoom(ns domain.Namespace, room string) {
	if ns != domain.NamespaceBomb {
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
	if r.released {
		return
	}
	// Joins go through JoinRoom under r.mu, so this count cannot go stale
	// before the entry is marked released.
	if n := s.bc.MemberCount(domain.NamespaceBomb, room); n > 0 {
		logrus.WithFields(logrus.Fields{"room": room, "members": n}).Debug("Bomb room repopulated after sweep, keeping state")
		return
	}
	s.mu.Lock()
	if s.rooms[room] == r {
		delete(s.rooms, room)
	}
	s.mu.Unlock()
	r.released = true
	if r.timer != nil {
		r.timer.Stop()
	}
	logrus.WithField("room", room).Debug("Bomb room state released")
}

// expire is the deadline callback: it fails the round if it is still the
// active one.
func (s *BombService) expire(room, roundID string) {
	var record *domain.RoundRecord
	s.withRoom(room, false, func(r *bombRoom) {
		if r.state != domain.RoundActive || r.round == nil || r.round.ID != roundID {
			return
		}
		record = s.settleLocked(r, s.timeoutOutcome(r.round, s.clock.Now()))
	})
	if record == nil {
		return
	}
	logrus.WithFields(logrus.Fields{"room": room, "round_id": roundID}).Info("Round timed out")
	s.record(context.Background(), record)
}

func (s *BombService) timeoutOutcome(round *domain.Round, now time.Time) domain.Outcome {
	return domain.Outcome{
		Success:     false,
		Reward:      0,
		Elapsed:     round.TimeLimit.Seconds(),
		Reason:      domain.SettledByTimeout,
		CompletedAt: now,
	}
}

// settleLocked must be called with r.mu held.
func (s *BombService) settleLocked(r *bombRoom, outcome domain.Outcome) *domain.RoundRecord {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.state = domain.RoundSettled
	r.round.Outcome = &outcome
	s.bc.Broadcast(domain.NamespaceBomb, r.round.Room, dto.EventGameResult, dto.GameResult{
		RoundID:   r.round.ID,
		Success:   outcome.Success,
		TimeTaken: outcome.Elapsed,
		Reward:    outcome.Reward,
		Reason:    outcome.Reason,
	})
	return domain.NewRoundRecord(r.round)
}

func (s *BombService) record(ctx context.Context, record *domain.RoundRecord) {
	if record == nil {
		return
	}
	if err := s.recorder.RecordRound(ctx, record); err != nil {
		logrus.WithFields(logrus.Fields{"room": record.Room, "round_id": record.RoundID}).WithError(err).Error("Failed to record settled round")
	}
}

// checkActive must be called with r.mu held.
func (r *bombRoom) checkActive(roundID string) error {
	if r.state != domain.RoundActive || r.round == nil {
		return ErrNoActiveRound
	}
	if roundID != "" && roundID != r.round.ID {
		return ErrStaleRound
	}
	return nil
}

func copyRound(r *domain.Round) *domain.Round {
	if r == nil {
		return nil
	}
	out := *r
	out.Inputs = append([]domain.InputEvent(nil), r.Inputs...)
	out.Outcome = copyOutcome(r.Outcome)
	return &out
}

func copyOutcome(o *domain.Outcome) *domain.Outcome {
	if o == nil {
		return nil
	}
	out := *o
	return &out
}
