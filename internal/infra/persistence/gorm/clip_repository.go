package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
)

// GormClipRepository implements repository.ClipRepository.
type GormClipRepository struct {
	db *gorm.DB
}

func NewGormClipRepository(db *gorm.DB) *GormClipRepository {
	if db == nil {
		panic("database connection cannot be nil for GormClipRepository")
	}
	return &GormClipRepository{db: db}
}

func (r *GormClipRepository) List(ctx context.Context, filter domain.ClipFilter) ([]domain.Clip, error) {
	var out []domain.Clip
	query := r.db.WithContext(ctx).Order("created_at desc, id asc")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Game != "" {
		query = query.Where("game = ?", filter.Game)
	}
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("gorm: list clips (category '%s', game '%s'): %w", filter.Category, filter.Game, err)
	}
	return out, nil
}

func (r *GormClipRepository) FindByID(ctx context.Context, id string) (*domain.Clip, error) {
	var clip domain.Clip
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&clip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrClipNotFound
		}
		return nil, fmt.Errorf("gorm: find clip '%s': %w", id, err)
	}
	return &clip, nil
}

func (r *GormClipRepository) Create(ctx context.Context, clip *domain.Clip) error {
	if err := r.db.WithContext(ctx).Create(clip).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create clip '%s': %w", clip.ID, err)
	}
	return nil
}

// AddLike inserts the like row and bumps the counter in one transaction; the
// unique (clip, user) index rejects a second like.
func (r *GormClipRepository) AddLike(ctx context.Context, clipID string, userID uint) (int, error) {
	var likes int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clip domain.Clip
		if err := tx.Select("id").Where("id = ?", clipID).First(&clip).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrClipNotFound
			}
			return err
		}
		if err := tx.Create(&domain.ClipLike{ClipID: clipID, UserID: userID}).Error; err != nil {
			if isDuplicateEntryError(err) {
				return repository.ErrDuplicateEntry
			}
			return err
		}
		if err := tx.Model(&domain.Clip{}).Where("id = ?", clipID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Clip{}).Select("likes").Where("id = ?", clipID).Scan(&likes).Error
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrDuplicateEntry) {
			return 0, err
		}
		return 0, fmt.Errorf("gorm: add like (clip '%s', user %d): %w", clipID, userID, err)
	}
	return likes, nil
}
