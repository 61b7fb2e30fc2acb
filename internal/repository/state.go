package repository

import (
	"context"
	"time"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// StateRepository holds shared fast state, implemented on Redis.
type StateRepository interface {
	// CheckRateLimit increments the counter for key and reports whether it
	// exceeds limit within the window.
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// AddReward adds reward to the user's leaderboard score and returns the new total.
	AddReward(ctx context.Context, userID uint, reward int) (int64, error)

	// TopRewards returns the best limit users, highest score first.
	TopRewards(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}
