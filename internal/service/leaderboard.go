package service

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// LeaderboardService reads bomb game scores and round history.
type LeaderboardService struct {
	state  repository.StateRepository
	rounds repository.RoundRecordRepository
}

func NewLeaderboardService(state repository.StateRepository, rounds repository.RoundRecordRepository) *LeaderboardService {
	if state == nil {
		panic("StateRepository cannot be nil for LeaderboardService")
	}
	if rounds == nil {
		panic("RoundRecordRepository cannot be nil for LeaderboardService")
	}
	return &LeaderboardService{state: state, rounds: rounds}
}

// Top returns the best users by accumulated reward. limit is clamped to
// 1..MaxLeaderboardLimit, with DefaultLeaderboardLimit for zero.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	limit = clampLimit(limit)
	entries, err := s.state.TopRewards(ctx, limit)
	if err != nil {
		logrus.WithField("limit", limit).WithError(err).Error("Failed to read leaderboard")
		return nil, ErrInternalServer
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

// History returns the user's most recent recorded rounds.
func (s *LeaderboardService) History(ctx context.Context, userID uint, limit int) ([]domain.RoundRecord, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	limit = clampLimit(limit)
	records, err := s.rounds.ListByUser(ctx, userID, limit)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Failed to read round history")
		return nil, ErrInternalServer
	}
	if records == nil {
		records = []domain.RoundRecord{}
	}
	return records, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		return MaxLeaderboardLimit
	default:
		return limit
	}
}
