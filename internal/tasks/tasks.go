package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// Task types.
const (
	TypeRoundRecord = "round:record" // persist a settled bomb round
	TypeRoomSweep   = "room:sweep"   // drop idle real-time rooms
)

// Queues.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// RoundRecordPayload carries one settled round to the worker.
type RoundRecordPayload struct {
	Record domain.RoundRecord `json:"record"`
}

// NewRoundRecordTask builds a round:record task. The round id doubles as the
// task id so a round is queued at most once.
func NewRoundRecordTask(record *domain.RoundRecord) (*asynq.Task, error) {
	if record == nil {
		return nil, fmt.Errorf("round record cannot be nil")
	}
	payload, err := json.Marshal(RoundRecordPayload{Record: *record})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal round record payload: %w", err)
	}
	return asynq.NewTask(TypeRoundRecord, payload,
		asynq.TaskID(TypeRoundRecord+":"+record.RoundID),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(5),
	), nil
}

// ParseRoundRecordTask decodes a round:record payload.
func ParseRoundRecordTask(t *asynq.Task) (*domain.RoundRecord, error) {
	var p RoundRecordPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round record payload: %w", err)
	}
	if p.Record.RoundID == "" {
		return nil, fmt.Errorf("round record payload has no round id")
	}
	return &p.Record, nil
}

// NewRoomSweepTask builds the periodic room:sweep task. It has no payload.
func NewRoomSweepTask() *asynq.Task {
	return asynq.NewTask(TypeRoomSweep, nil, asynq.Queue(QueueLow), asynq.MaxRetry(0))
}
