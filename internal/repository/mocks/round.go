package mocks

import (
	"context"
	"time"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"

	"github.com/stretchr/testify/mock"
)

type RoundRecordRepository struct {
	mock.Mock
}

func (m *RoundRecordRepository) Save(ctx context.Context, record *domain.RoundRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *RoundRecordRepository) FindByRoundID(ctx context.Context, roundID string) (*domain.RoundRecord, error) {
	args := m.Called(ctx, roundID)
	out, _ := args.Get(0).(*domain.RoundRecord)
	return out, args.Error(1)
}

func (m *RoundRecordRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]domain.RoundRecord, error) {
	args := m.Called(ctx, userID, limit)
	out, _ := args.Get(0).([]domain.RoundRecord)
	return out, args.Error(1)
}

type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *StateRepository) AddReward(ctx context.Context, userID uint, reward int) (int64, error) {
	args := m.Called(ctx, userID, reward)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StateRepository) TopRewards(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	out, _ := args.Get(0).([]domain.LeaderboardEntry)
	return out, args.Error(1)
}
