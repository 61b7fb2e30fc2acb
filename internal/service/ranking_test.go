package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository/mocks"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRankingService() (*service.RankingService, *mocks.FollowRepository, *mocks.GameRepository, *mocks.UserRepository) {
	follows := new(mocks.FollowRepository)
	games := new(mocks.GameRepository)
	users := new(mocks.UserRepository)
	return service.NewRankingService(follows, games, users), follows, games, users
}

var rankedStats = []domain.PlayerStats{
	{UserID: 1, Username: "ProGamer123", Followers: 3, Clips: 2},
	{UserID: 2, Username: "GameMaster", Followers: 1, Clips: 5},
	{UserID: 3, Username: "NinjaStreamer", Followers: 0, Clips: 0},
}

func TestRankingService_GlobalAssignsRanksAndFlags(t *testing.T) {
	svc, follows, _, _ := newRankingService()
	ctx := context.Background()

	follows.On("FollowingIDs", ctx, uint(9)).Return([]uint{2}, nil).Once()
	follows.On("Rank", ctx, repository.RankQuery{Limit: service.RankingLimit}).Return(rankedStats, nil).Once()

	out, err := svc.Ranking(ctx, 9, service.RankingGlobal, "")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, domain.RankedPlayer{ID: 1, Username: "ProGamer123", Rank: 1, Followers: 3, Clips: 2}, out[0])
	assert.Equal(t, 2, out[1].Rank)
	assert.True(t, out[1].Following)
	assert.False(t, out[2].Following)
	follows.AssertExpectations(t)
}

func TestRankingService_AnonymousAndUnknownFilter(t *testing.T) {
	svc, follows, _, _ := newRankingService()
	ctx := context.Background()

	follows.On("Rank", ctx, repository.RankQuery{Limit: service.RankingLimit}).Return(rankedStats, nil).Twice()

	out, err := svc.Ranking(ctx, 0, "weekly", "")
	require.NoError(t, err)
	assert.Len(t, out, 3)
	for _, p := range out {
		assert.False(t, p.Following)
	}

	// "game" without a game id falls back to the global ranking.
	_, err = svc.Ranking(ctx, 0, service.RankingGame, "")
	require.NoError(t, err)
	follows.AssertNotCalled(t, "FollowingIDs", mock.Anything, mock.Anything)
	follows.AssertExpectations(t)
}

func TestRankingService_Following(t *testing.T) {
	svc, follows, _, _ := newRankingService()
	ctx := context.Background()

	_, err := svc.Ranking(ctx, 0, service.RankingFollowing, "")
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))

	follows.On("FollowingIDs", ctx, uint(9)).Return(nil, nil).Once()
	follows.On("Rank", ctx, repository.RankQuery{UserIDs: []uint{}, Limit: service.RankingLimit}).Return([]domain.PlayerStats{}, nil).Once()
	out, err := svc.Ranking(ctx, 9, service.RankingFollowing, "")
	require.NoError(t, err)
	assert.Empty(t, out, "following nobody ranks nobody")

	follows.On("FollowingIDs", ctx, uint(8)).Return([]uint{1, 3}, nil).Once()
	follows.On("Rank", ctx, repository.RankQuery{UserIDs: []uint{1, 3}, Limit: service.RankingLimit}).
		Return([]domain.PlayerStats{rankedStats[0], rankedStats[2]}, nil).Once()
	out, err = svc.Ranking(ctx, 8, service.RankingFollowing, "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Following)
	assert.True(t, out[1].Following)
	assert.Equal(t, 2, out[1].Rank)
	follows.AssertExpectations(t)
}

func TestRankingService_GameFilter(t *testing.T) {
	svc, follows, games, _ := newRankingService()
	ctx := context.Background()

	games.On("FindByID", ctx, "game1").Return(&domain.Game{ID: "game1", Name: "Fortnite"}, nil).Once()
	games.On("FindByID", ctx, "game9").Return(nil, repository.ErrGameNotFound).Once()
	follows.On("Rank", ctx, repository.RankQuery{Game: "Fortnite", Limit: service.RankingLimit}).Return(rankedStats[:1], nil).Once()

	out, err := svc.Ranking(ctx, 0, service.RankingGame, "game1")
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = svc.Ranking(ctx, 0, service.RankingGame, "game9")
	assert.True(t, errors.Is(err, service.ErrGameNotFound))
	follows.AssertExpectations(t)
}

func TestRankingService_FollowAndUnfollow(t *testing.T) {
	svc, follows, _, users := newRankingService()
	ctx := context.Background()
	target := &domain.User{ID: 2, Username: "GameMaster"}

	users.On("FindByID", ctx, uint(2)).Return(target, nil)
	users.On("FindByID", ctx, uint(7)).Return(&domain.User{ID: 7, Username: "me"}, nil)
	users.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrUserNotFound)
	follows.On("Follow", ctx, uint(7), uint(2)).Return(nil).Once()
	follows.On("Follow", ctx, uint(7), uint(2)).Return(repository.ErrDuplicateEntry).Once()
	follows.On("Unfollow", ctx, uint(7), uint(2)).Return(true, nil).Once()
	follows.On("Unfollow", ctx, uint(7), uint(2)).Return(false, nil).Once()

	got, err := svc.Follow(ctx, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, "GameMaster", got.Username)
	_, err = svc.Follow(ctx, 7, 2)
	assert.NoError(t, err, "following twice is idempotent")

	_, err = svc.Unfollow(ctx, 7, 2)
	assert.NoError(t, err)
	_, err = svc.Unfollow(ctx, 7, 2)
	assert.NoError(t, err, "unfollowing twice is idempotent")

	_, err = svc.Follow(ctx, 7, 7)
	assert.True(t, errors.Is(err, service.ErrSelfFollow))
	_, err = svc.Follow(ctx, 7, 99)
	assert.True(t, errors.Is(err, service.ErrUserNotFound))
	_, err = svc.Unfollow(ctx, 0, 2)
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))
	follows.AssertExpectations(t)
}
