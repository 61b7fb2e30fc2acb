package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
)

// GormGameRepository implements repository.GameRepository.
type GormGameRepository struct {
	db *gorm.DB
}

func NewGormGameRepository(db *gorm.DB) *GormGameRepository {
	if db == nil {
		panic("database connection cannot be nil for GormGameRepository")
	}
	return &GormGameRepository{db: db}
}

func (r *GormGameRepository) List(ctx context.Context) ([]domain.Game, error) {
	var out []domain.Game
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("gorm: list games: %w", err)
	}
	return out, nil
}

func (r *GormGameRepository) FindByID(ctx context.Context, id string) (*domain.Game, error) {
	return r.findBy(ctx, "id = ?", id)
}

func (r *GormGameRepository) FindByName(ctx context.Context, name string) (*domain.Game, error) {
	return r.findBy(ctx, "name = ?", name)
}

func (r *GormGameRepository) findBy(ctx context.Context, cond string, value string) (*domain.Game, error) {
	var g domain.Game
	if err := r.db.WithContext(ctx).Where(cond, value).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGameNotFound
		}
		return nil, fmt.Errorf("gorm: find game (%s '%s'): %w", cond, value, err)
	}
	return &g, nil
}

// GormFollowRepository implements repository.FollowRepository.
type GormFollowRepository struct {
	db *gorm.DB
}

func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	if db == nil {
		panic("database connection cannot be nil for GormFollowRepository")
	}
	return &GormFollowRepository{db: db}
}

func (r *GormFollowRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	err := r.db.WithContext(ctx).Create(&domain.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: follow (%d -> %d): %w", followerID, followeeID, err)
	}
	return nil
}

func (r *GormFollowRepository) Unfollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&domain.Follow{})
	if result.Error != nil {
		return false, fmt.Errorf("gorm: unfollow (%d -> %d): %w", followerID, followeeID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormFollowRepository) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list followees of %d: %w", followerID, err)
	}
	return ids, nil
}

// Rank counts followers and clips per user with correlated subqueries so a
// user with neither still gets a row.
func (r *GormFollowRepository) Rank(ctx context.Context, q repository.RankQuery) ([]domain.PlayerStats, error) {
	out := []domain.PlayerStats{}
	if q.UserIDs != nil && len(q.UserIDs) == 0 {
		return out, nil
	}

	clipCount := "(SELECT COUNT(*) FROM clips WHERE clips.user_id = users.id) AS clips"
	var args []interface{}
	if q.Game != "" {
		clipCount = "(SELECT COUNT(*) FROM clips WHERE clips.user_id = users.id AND clips.game = ?) AS clips"
		args = append(args, q.Game)
	}
	query := r.db.WithContext(ctx).Table("users").Select(
		"users.id AS user_id, users.username AS username, "+
			"(SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id) AS followers, "+
			clipCount, args...)

	if q.UserIDs != nil {
		query = query.Where("users.id IN ?", q.UserIDs)
	}
	if q.Game != "" {
		query = query.Where("EXISTS (SELECT 1 FROM clips WHERE clips.user_id = users.id AND clips.game = ?)", q.Game)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	if err := query.Order("followers DESC, clips DESC, users.id ASC").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("gorm: rank players (game '%s'): %w", q.Game, err)
	}
	return out, nil
}
