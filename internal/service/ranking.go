package service

import (
	"context"
	"errors"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"

	"github.com/sirupsen/logrus"
)

// Ranking filters accepted by RankingService.Ranking.
const (
	RankingGlobal    = "global"
	RankingFollowing = "following"
	RankingGame      = "game"

	// RankingLimit caps the entries of one ranking.
	RankingLimit = 50
)

// RankingService ranks players by followers and manages follows.
type RankingService struct {
	follows repository.FollowRepository
	games   repository.GameRepository
	users   repository.UserRepository
}

func NewRankingService(follows repository.FollowRepository, games repository.GameRepository, users repository.UserRepository) *RankingService {
	if follows == nil || games == nil || users == nil {
		panic("repositories cannot be nil for RankingService")
	}
	return &RankingService{follows: follows, games: games, users: users}
}

// Ranking returns the ranking for filter as seen by viewerID (0 when
// anonymous). Unknown filters, and "game" without a gameID, fall back to
// the global ranking.
func (s *RankingService) Ranking(ctx context.Context, viewerID uint, filter, gameID string) ([]domain.RankedPlayer, error) {
	logCtx := logrus.WithFields(logrus.Fields{"viewer_id": viewerID, "filter": filter, "game_id": gameID})

	// The viewer's follow set drives both the "following" filter and the
	// per-entry flag.
	var following map[uint]bool
	var followingIDs []uint
	if viewerID != 0 {
		ids, err := s.follows.FollowingIDs(ctx, viewerID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to load follow set")
			return nil, ErrInternalServer
		}
		followingIDs = append([]uint{}, ids...)
		following = make(map[uint]bool, len(ids))
		for _, id := range ids {
			following[id] = true
		}
	}

	q := repository.RankQuery{Limit: RankingLimit}
	switch {
	case filter == RankingFollowing:
		if viewerID == 0 {
			return nil, ErrUnauthenticated
		}
		q.UserIDs = followingIDs
	case filter == RankingGame && gameID != "":
		game, err := s.games.FindByID(ctx, gameID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logCtx.WithError(err).Error("Failed to look up game")
			}
			return nil, mapRepoError(err, ErrGameNotFound)
		}
		q.Game = game.Name
	}

	stats, err := s.follows.Rank(ctx, q)
	if err != nil {
		logCtx.WithError(err).Error("Failed to rank players")
		return nil, ErrInternalServer
	}
	out := make([]domain.RankedPlayer, 0, len(stats))
	for i, st := range stats {
		out = append(out, domain.RankedPlayer{
			ID:        st.UserID,
			Username:  st.Username,
			Rank:      i + 1,
			Followers: st.Followers,
			Clips:     st.Clips,
			Following: following[st.UserID],
		})
	}
	return out, nil
}

func (s *RankingService) Games(ctx context.Context) ([]domain.Game, error) {
	out, err := s.games.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list games")
		return nil, ErrInternalServer
	}
	if out == nil {
		out = []domain.Game{}
	}
	return out, nil
}

// Follow makes followerID follow targetID and returns the target. Following
// twice is not an error.
func (s *RankingService) Follow(ctx context.Context, followerID, targetID uint) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": followerID, "target_id": targetID})
	target, err := s.target(ctx, followerID, targetID)
	if err != nil {
		return nil, err
	}
	if followerID == targetID {
		return nil, ErrSelfFollow
	}
	if err := s.follows.Follow(ctx, followerID, targetID); err != nil && !errors.Is(err, repository.ErrDuplicateEntry) {
		logCtx.WithError(err).Error("Failed to follow user")
		return nil, ErrInternalServer
	}
	logCtx.Info("User followed")
	return target, nil
}

// Unfollow removes the edge if present and returns the target.
func (s *RankingService) Unfollow(ctx context.Context, followerID, targetID uint) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": followerID, "target_id": targetID})
	target, err := s.target(ctx, followerID, targetID)
	if err != nil {
		return nil, err
	}
	removed, err := s.follows.Unfollow(ctx, followerID, targetID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to unfollow user")
		return nil, ErrInternalServer
	}
	logCtx.WithField("removed", removed).Info("User unfollowed")
	return target, nil
}

// target checks the caller and resolves the user being (un)followed.
func (s *RankingService) target(ctx context.Context, followerID, targetID uint) (*domain.User, error) {
	if followerID == 0 {
		return nil, ErrUnauthenticated
	}
	if targetID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithField("target_id", targetID).WithError(err).Error("Failed to load follow target")
		}
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	return user, nil
}
