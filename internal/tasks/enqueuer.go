package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// TaskClient is the part of *asynq.Client the enqueuer uses.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RoundEnqueuer hands settled rounds to the worker through asynq.
type RoundEnqueuer struct {
	client TaskClient
}

func NewRoundEnqueuer(client TaskClient) *RoundEnqueuer {
	if client == nil {
		panic("asynq client cannot be nil for RoundEnqueuer")
	}
	return &RoundEnqueuer{client: client}
}

// RecordRound enqueues a round:record task. A round that is already queued
// is not an error.
func (e *RoundEnqueuer) RecordRound(ctx context.Context, record *domain.RoundRecord) error {
	task, err := NewRoundRecordTask(record)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			logrus.WithField("round_id", record.RoundID).Debug("Round record already queued")
			return nil
		}
		return fmt.Errorf("failed to enqueue round record %s: %w", record.RoundID, err)
	}
	logrus.WithFields(logrus.Fields{"round_id": record.RoundID, "task_id": info.ID, "queue": info.Queue}).Debug("Round record enqueued")
	return nil
}
