package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
)

// GormCatalogRepository implements repository.CatalogRepository.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCatalogRepository")
	}
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) ListWeapons(ctx context.Context) ([]domain.Weapon, error) {
	var out []domain.Weapon
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("gorm: list weapons: %w", err)
	}
	return out, nil
}

func (r *GormCatalogRepository) ListSkins(ctx context.Context, weaponID string) ([]domain.Skin, error) {
	var out []domain.Skin
	query := r.db.WithContext(ctx).Order("id asc")
	if weaponID != "" {
		query = query.Where("weapon_id = ?", weaponID)
	}
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("gorm: list skins (weapon '%s'): %w", weaponID, err)
	}
	return out, nil
}

func (r *GormCatalogRepository) ListStickers(ctx context.Context) ([]domain.Sticker, error) {
	var out []domain.Sticker
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("gorm: list stickers: %w", err)
	}
	return out, nil
}

func (r *GormCatalogRepository) FindWeapon(ctx context.Context, id string) (*domain.Weapon, error) {
	var w domain.Weapon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find weapon '%s': %w", id, err)
	}
	return &w, nil
}

func (r *GormCatalogRepository) FindSkin(ctx context.Context, id string) (*domain.Skin, error) {
	var s domain.Skin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find skin '%s': %w", id, err)
	}
	return &s, nil
}
