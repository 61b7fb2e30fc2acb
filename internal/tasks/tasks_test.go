package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

type fakeClient struct {
	tasks []*asynq.Task
	err   error
}

func (c *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Queue: QueueDefault, Type: task.Type()}, nil
}

func sampleRecord() *domain.RoundRecord {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.RoundRecord{RoundID: "round-1", Room: "r1", Sequence: "SEEWQWA", Success: true, Reward: 85,
		Elapsed: 15, Reason: domain.SettledBySubmission, UserID: 3, StartedAt: at, SettledAt: at.Add(15 * time.Second)}
}

func TestRoundRecordTask_Roundtrip(t *testing.T) {
	task, err := NewRoundRecordTask(sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, TypeRoundRecord, task.Type())

	got, err := ParseRoundRecordTask(task)
	require.NoError(t, err)
	assert.Equal(t, *sampleRecord(), *got)

	_, err = NewRoundRecordTask(nil)
	assert.Error(t, err)

	_, err = ParseRoundRecordTask(asynq.NewTask(TypeRoundRecord, []byte("{")))
	assert.Error(t, err)
	_, err = ParseRoundRecordTask(asynq.NewTask(TypeRoundRecord, []byte(`{"record":{}}`)))
	assert.Error(t, err)
}

func TestRoundEnqueuer_RecordRound(t *testing.T) {
	client := &fakeClient{}
	e := NewRoundEnqueuer(client)

	require.NoError(t, e.RecordRound(context.Background(), sampleRecord()))
	require.Len(t, client.tasks, 1)
	assert.Equal(t, TypeRoundRecord, client.tasks[0].Type())
}

func TestRoundEnqueuer_DuplicateIsNotAnError(t *testing.T) {
	e := NewRoundEnqueuer(&fakeClient{err: asynq.ErrTaskIDConflict})
	assert.NoError(t, e.RecordRound(context.Background(), sampleRecord()))

	e = NewRoundEnqueuer(&fakeClient{err: errors.New("redis down")})
	assert.Error(t, e.RecordRound(context.Background(), sampleRecord()))
}
