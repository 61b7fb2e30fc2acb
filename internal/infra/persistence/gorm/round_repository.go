package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
)

// GormRoundRecordRepository implements repository.RoundRecordRepository.
type GormRoundRecordRepository struct {
	db *gorm.DB
}

func NewGormRoundRecordRepository(db *gorm.DB) *GormRoundRecordRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoundRecordRepository")
	}
	return &GormRoundRecordRepository{db: db}
}

func (r *GormRoundRecordRepository) Save(ctx context.Context, record *domain.RoundRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save round record '%s': %w", record.RoundID, err)
	}
	return nil
}

func (r *GormRoundRecordRepository) FindByRoundID(ctx context.Context, roundID string) (*domain.RoundRecord, error) {
	var rec domain.RoundRecord
	if err := r.db.WithContext(ctx).Where("round_id = ?", roundID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find round record '%s': %w", roundID, err)
	}
	return &rec, nil
}

func (r *GormRoundRecordRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]domain.RoundRecord, error) {
	var out []domain.RoundRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("settled_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list round records for user %d: %w", userID, err)
	}
	return out, nil
}
