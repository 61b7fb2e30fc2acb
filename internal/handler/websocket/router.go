package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/dto"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/hub"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"

	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
)

// Router dispatches inbound frames to the bomb and loadout sessions. Every
// rejection is sent to the caller only, never broadcast.
type Router struct {
	hub     *hub.Hub
	bomb    *service.BombService
	loadout *service.LoadoutService
}

func NewRouter(h *hub.Hub, bomb *service.BombService, loadout *service.LoadoutService) *Router {
	if h == nil || bomb == nil || loadout == nil {
		panic("hub and services cannot be nil for Router")
	}
	return &Router{hub: h, bomb: bomb, loadout: loadout}
}

// Dispatch implements hub.Dispatcher.
func (r *Router) Dispatch(ctx context.Context, p domain.Participant, frame dto.Frame) {
	var err error
	switch frame.Event {
	case dto.EventJoinBombRoom:
		err = r.join(domain.NamespaceBomb, p, frame.Data)
	case dto.EventLeaveBombRoom:
		err = r.leave(domain.NamespaceBomb, p, frame.Data)
	case dto.EventJoinLoadoutRoom:
		err = r.join(domain.NamespaceLoadout, p, frame.Data)
	case dto.EventLeaveLoadoutRoom:
		err = r.leave(domain.NamespaceLoadout, p, frame.Data)
	case dto.EventBombGameStart:
		err = r.startRound(ctx, p, frame.Data)
	case dto.EventBombGameInput:
		err = r.relayInput(ctx, p, frame.Data)
	case dto.EventBombGameResult:
		err = r.settleRound(ctx, p, frame.Data)
	case dto.EventBombGameHint:
		err = r.relayHint(ctx, p, frame.Data)
	case dto.EventLoadoutUpdate:
		err = r.submitDraft(ctx, p, frame.Data)
	case dto.EventLoadoutVote:
		err = r.castVote(ctx, p, frame.Data)
	default:
		err = fmt.Errorf("%w: unknown event %q", service.ErrInvalidPayload, frame.Event)
	}
	if err != nil {
		r.reject(p, frame.Event, err)
	}
}

func (r *Router) reject(p domain.Participant, event string, err error) {
	logCtx := logrus.WithFields(logrus.Fields{
		"participant_id": p.ID,
		"user_id":        p.UserID,
		"event":          event,
	})
	message := err.Error()
	if errors.Is(err, service.ErrInternalServer) {
		logCtx.WithError(err).Error("WS event failed")
		message = service.ErrInternalServer.Error()
	} else {
		logCtx.WithError(err).Debug("WS event rejected")
	}
	r.hub.Send(p.ID, dto.EventError, dto.ErrorDTO{Event: event, Message: message})
}

// decode unmarshals data into v and runs gin's binding validator over it.
func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", service.ErrInvalidPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidPayload, err)
	}
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidPayload, err)
	}
	return nil
}

func (r *Router) requireMember(ns domain.Namespace, p domain.Participant, room string) error {
	if !r.hub.IsMember(ns, p.ID, room) {
		return service.ErrNotInRoom
	}
	return nil
}

func (r *Router) join(ns domain.Namespace, p domain.Participant, data json.RawMessage) error {
	var req dto.RoomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	join := func() { r.hub.Join(ns, p.ID, req.Room) }

	// Late joiners catch up with the room's current state.
	switch ns {
	case domain.NamespaceBomb:
		r.bomb.JoinRoom(req.Room, join, func(started dto.GameStarted) {
			r.hub.Send(p.ID, dto.EventGameStarted, started)
		})
	case domain.NamespaceLoadout:
		r.loadout.JoinRoom(req.Room, join, func(updated dto.LoadoutUpdated) {
			r.hub.Send(p.ID, dto.EventLoadoutUpdated, updated)
		})
	default:
		join()
	}
	return nil
}

func (r *Router) leave(ns domain.Namespace, p domain.Participant, data json.RawMessage) error {
	var req dto.RoomRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	r.hub.Leave(ns, p.ID, req.Room)
	return nil
}

func (r *Router) startRound(ctx context.Context, p domain.Participant, data json.RawMessage) error {
	var req dto.BombStartRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	if err := r.requireMember(domain.NamespaceBomb, p, req.Room); err != nil {
		return err
	}
	if req.Sequence != "" {
		logrus.WithField("room", req.Room).Debug("Ignoring client-supplied sequence")
	}
	_, err := r.bomb.StartRound(ctx, req.Room, req.TimeLimit)
	return err
}

func (r *Router) relayInput(ctx context.Context, p domain.Participant, data json.RawMessage) error {
	var req dto.BombInputRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	if err := r.requireMember(domain.NamespaceBomb, p, req.Room); err != nil {
		return err
	}
	return r.bomb.RelayInput(ctx, req.Room, req.RoundID, p.ID, req.Input, *req.Position)
}

// settleRound ignores time_taken; the server measures elapsed time itself.
func (r *Router) settleRound(ctx context.Context, p domain.Participant, data json.RawMessage) error {
	var req dto.BombResultRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	if err := r.requireMember(domain.NamespaceBomb, p, req.Room); err != nil {
		return err
	}
	_, err := r.bomb.SettleRound(ctx, req.Room, service.SettleRequest{
		RoundID:         req.RoundID,
		Submitted:       *req.Sequence,
		UserID:          p.UserID,
		ClaimedExpected: req.ExpectedSequence,
		ClaimedSuccess:  req.Success,
		ClaimedReward:   req.Reward,
	})
	return err
}

func (r *Router) relayHint(ctx context.Context, p domain.Participant, data json.RawMessage) error {
	var req dto.BombHintRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	if err := r.requireMember(domain.NamespaceBomb, p, req.Room); err != nil {
		return err
	}
	return r.bomb.RelayHint(ctx, req.Room, req.Hint)
}

func (r *Router) submitDraft(ctx context.Context, p domain.Participant, data json.RawMessage) error {
	var req dto.LoadoutUpdateRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	if err := r.requireMember(domain.NamespaceLoadout, p, req.Room); err != nil {
		return err
	}
	return r.loadout.SubmitDraft(ctx, req.Room, req.Loadout.ToDomain())
}

func (r *Router) castVote(ctx context.Context, p domain.Participant, data json.RawMessage) error {
	var req dto.LoadoutVoteRequest
	if err := decode(data, &req); err != nil {
		return err
	}
	if err := r.requireMember(domain.NamespaceLoadout, p, req.Room); err != nil {
		return err
	}
	_, err := r.loadout.CastVote(ctx, req.Room, req.LoadoutID, p.UserID, req.UserID)
	return err
}
