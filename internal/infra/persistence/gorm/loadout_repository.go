package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
)

// GormLoadoutRepository implements repository.LoadoutRepository.
type GormLoadoutRepository struct {
	db *gorm.DB
}

func NewGormLoadoutRepository(db *gorm.DB) *GormLoadoutRepository {
	if db == nil {
		panic("database connection cannot be nil for GormLoadoutRepository")
	}
	return &GormLoadoutRepository{db: db}
}

func (r *GormLoadoutRepository) List(ctx context.Context) ([]domain.Loadout, error) {
	var out []domain.Loadout
	if err := r.db.WithContext(ctx).Order("votes desc, created_at asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("gorm: list loadouts: %w", err)
	}
	return out, nil
}

func (r *GormLoadoutRepository) FindByID(ctx context.Context, id string) (*domain.Loadout, error) {
	var l domain.Loadout
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLoadoutNotFound
		}
		return nil, fmt.Errorf("gorm: find loadout '%s': %w", id, err)
	}
	return &l, nil
}

func (r *GormLoadoutRepository) Create(ctx context.Context, loadout *domain.Loadout) error {
	if err := r.db.WithContext(ctx).Create(loadout).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create loadout '%s': %w", loadout.ID, err)
	}
	return nil
}

// AddVote inserts the vote row and bumps the counter in one transaction; the
// unique (loadout, user) index rejects a second vote.
func (r *GormLoadoutRepository) AddVote(ctx context.Context, loadoutID string, userID uint) (int, error) {
	var votes int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l domain.Loadout
		if err := tx.Select("id").Where("id = ?", loadoutID).First(&l).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrLoadoutNotFound
			}
			return err
		}
		if err := tx.Create(&domain.LoadoutVote{LoadoutID: loadoutID, UserID: userID}).Error; err != nil {
			if isDuplicateEntryError(err) {
				return repository.ErrDuplicateEntry
			}
			return err
		}
		if err := tx.Model(&domain.Loadout{}).Where("id = ?", loadoutID).
			UpdateColumn("votes", gorm.Expr("votes + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Loadout{}).Select("votes").Where("id = ?", loadoutID).Scan(&votes).Error
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrDuplicateEntry) {
			return 0, err
		}
		return 0, fmt.Errorf("gorm: add vote (loadout '%s', user %d): %w", loadoutID, userID, err)
	}
	return votes, nil
}
