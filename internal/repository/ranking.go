package repository

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// GameRepository reads the games catalog.
type GameRepository interface {
	List(ctx context.Context) ([]domain.Game, error)

	// FindByID and FindByName return ErrGameNotFound for unknown games.
	FindByID(ctx context.Context, id string) (*domain.Game, error)
	FindByName(ctx context.Context, name string) (*domain.Game, error)
}

// RankQuery selects the players of a ranking.
type RankQuery struct {
	// UserIDs restricts the ranking to these users when not nil. An empty,
	// non-nil slice ranks nobody.
	UserIDs []uint
	// Game, when set, keeps only users with a clip in that game and counts
	// only those clips.
	Game  string
	Limit int
}

// FollowRepository stores the follow graph and ranks players by it.
type FollowRepository interface {
	// Follow yields ErrDuplicateEntry when the edge already exists.
	Follow(ctx context.Context, followerID, followeeID uint) error

	// Unfollow reports whether an edge was removed.
	Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error)

	// FollowingIDs returns the ids followerID follows.
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)

	// Rank returns players ordered by followers desc, clips desc, id asc.
	Rank(ctx context.Context, q RankQuery) ([]domain.PlayerStats, error)
}
