package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// RoomSweeper drops idle rooms; the hub implements it.
type RoomSweeper interface {
	SweepIdleRooms() map[domain.Namespace][]string
}

// RoomSweepHandler runs the periodic room:sweep task.
type RoomSweepHandler struct {
	sweeper RoomSweeper
}

func NewRoomSweepHandler(sweeper RoomSweeper) *RoomSweepHandler {
	if sweeper == nil {
		panic("RoomSweeper cannot be nil for RoomSweepHandler")
	}
	return &RoomSweepHandler{sweeper: sweeper}
}

func (h *RoomSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	removed := h.sweeper.SweepIdleRooms()
	total := 0
	fields := logrus.Fields{"task_type": t.Type()}
	for ns, rooms := range removed {
		total += len(rooms)
		fields[string(ns)] = len(rooms)
	}
	if total == 0 {
		logrus.WithFields(fields).Debug("Room sweep found no idle rooms")
		return nil
	}
	logrus.WithFields(fields).Info("Room sweep released idle rooms")
	return nil
}
