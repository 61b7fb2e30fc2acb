package redisstate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// RedisStateRepository implements repository.StateRepository.
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "prysms:"
	}
	return &RedisStateRepository{client: client, keyPrefix: keyPrefix}
}

func (r *RedisStateRepository) leaderboardKey() string {
	return r.keyPrefix + "bomb:leaderboard"
}

func (r *RedisStateRepository) rateLimitKey(key string) string {
	return r.keyPrefix + "ratelimit:" + key
}

// CheckRateLimit increments a counter with INCR+EXPIRE in one pipeline.
func (r *RedisStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := r.rateLimitKey(key)
	pipe := r.client.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: pipeline failed for rate limit check on key %s: %w", fullKey, err)
	}
	count, err := incrCmd.Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to get incr result for rate limit on key %s: %w", fullKey, err)
	}
	return count > int64(limit), nil
}

// AddReward bumps the user's score in the leaderboard sorted set.
func (r *RedisStateRepository) AddReward(ctx context.Context, userID uint, reward int) (int64, error) {
	member := strconv.FormatUint(uint64(userID), 10)
	score, err := r.client.ZIncrBy(ctx, r.leaderboardKey(), float64(reward), member).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: failed to add reward %d for user %d: %w", reward, userID, err)
	}
	return int64(score), nil
}

// TopRewards reads the highest scores first.
func (r *RedisStateRepository) TopRewards(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	zs, err := r.client.ZRevRangeWithScores(ctx, r.leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: failed to read leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID: uint(id),
			Reward: int64(z.Score),
			Rank:   i + 1,
		})
	}
	return entries, nil
}
