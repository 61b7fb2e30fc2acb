package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/tasks"
)

// RoundRecordHandler persists settled rounds and credits leaderboard rewards.
type RoundRecordHandler struct {
	rounds repository.RoundRecordRepository
	state  repository.StateRepository
}

func NewRoundRecordHandler(rounds repository.RoundRecordRepository, state repository.StateRepository) *RoundRecordHandler {
	if rounds == nil {
		panic("RoundRecordRepository cannot be nil for RoundRecordHandler")
	}
	if state == nil {
		panic("StateRepository cannot be nil for RoundRecordHandler")
	}
	return &RoundRecordHandler{rounds: rounds, state: state}
}

// ProcessTask implements asynq.Handler. A round already on file is skipped
// before any write. Otherwise the record is saved first and the reward is
// credited only when this delivery inserted the row, so a retried task never
// counts a round twice.
func (h *RoundRecordHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	retry, _ := asynq.GetRetryCount(ctx)
	logCtx := logrus.WithFields(logrus.Fields{"task_type": t.Type(), "retry": retry})

	record, err := tasks.ParseRoundRecordTask(t)
	if err != nil {
		logCtx.WithError(err).Error("Failed to decode round record task")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithFields(logrus.Fields{"round_id": record.RoundID, "room": record.Room})

	// 1. Already recorded by an earlier delivery?
	if _, err := h.rounds.FindByRoundID(ctx, record.RoundID); err == nil {
		logCtx.Info("Round already recorded, skipping")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		logCtx.WithError(err).Error("Failed to look up round record")
		return fmt.Errorf("failed to look up round %s: %w", record.RoundID, err)
	}

	// 2. Insert. Two deliveries racing past the lookup meet the unique index.
	if err := h.rounds.Save(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Info("Round already recorded, skipping")
			return nil
		}
		logCtx.WithError(err).Error("Failed to save round record")
		return fmt.Errorf("failed to save round %s: %w", record.RoundID, err)
	}

	// 3. Credit the leaderboard for successful, attributed rounds.
	if record.Success && record.UserID != 0 && record.Reward > 0 {
		total, err := h.state.AddReward(ctx, record.UserID, record.Reward)
		if err != nil {
			// The row is stored; a retry would hit the duplicate branch, so
			// the missed credit is only logged.
			logCtx.WithError(err).Error("Failed to credit leaderboard reward")
			return nil
		}
		logCtx.WithFields(logrus.Fields{"user_id": record.UserID, "total": total}).Info("Leaderboard reward credited")
	}

	logCtx.Info("Round record task processed")
	return nil
}
