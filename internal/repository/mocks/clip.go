package mocks

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"

	"github.com/stretchr/testify/mock"
)

type ClipRepository struct {
	mock.Mock
}

func (m *ClipRepository) List(ctx context.Context, filter domain.ClipFilter) ([]domain.Clip, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]domain.Clip)
	return out, args.Error(1)
}

func (m *ClipRepository) FindByID(ctx context.Context, id string) (*domain.Clip, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Clip)
	return out, args.Error(1)
}

func (m *ClipRepository) Create(ctx context.Context, clip *domain.Clip) error {
	args := m.Called(ctx, clip)
	return args.Error(0)
}

func (m *ClipRepository) AddLike(ctx context.Context, clipID string, userID uint) (int, error) {
	args := m.Called(ctx, clipID, userID)
	return args.Int(0), args.Error(1)
}

type GameRepository struct {
	mock.Mock
}

func (m *GameRepository) List(ctx context.Context) ([]domain.Game, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Game)
	return out, args.Error(1)
}

func (m *GameRepository) FindByID(ctx context.Context, id string) (*domain.Game, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Game)
	return out, args.Error(1)
}

func (m *GameRepository) FindByName(ctx context.Context, name string) (*domain.Game, error) {
	args := m.Called(ctx, name)
	out, _ := args.Get(0).(*domain.Game)
	return out, args.Error(1)
}

type FollowRepository struct {
	mock.Mock
}

func (m *FollowRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *FollowRepository) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *FollowRepository) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	args := m.Called(ctx, followerID)
	out, _ := args.Get(0).([]uint)
	return out, args.Error(1)
}

func (m *FollowRepository) Rank(ctx context.Context, q repository.RankQuery) ([]domain.PlayerStats, error) {
	args := m.Called(ctx, q)
	out, _ := args.Get(0).([]domain.PlayerStats)
	return out, args.Error(1)
}
