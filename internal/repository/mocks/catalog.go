package mocks

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"

	"github.com/stretchr/testify/mock"
)

type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) ListWeapons(ctx context.Context) ([]domain.Weapon, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Weapon)
	return out, args.Error(1)
}

func (m *CatalogRepository) ListSkins(ctx context.Context, weaponID string) ([]domain.Skin, error) {
	args := m.Called(ctx, weaponID)
	out, _ := args.Get(0).([]domain.Skin)
	return out, args.Error(1)
}

func (m *CatalogRepository) ListStickers(ctx context.Context) ([]domain.Sticker, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Sticker)
	return out, args.Error(1)
}

func (m *CatalogRepository) FindWeapon(ctx context.Context, id string) (*domain.Weapon, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Weapon)
	return out, args.Error(1)
}

func (m *CatalogRepository) FindSkin(ctx context.Context, id string) (*domain.Skin, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Skin)
	return out, args.Error(1)
}

type LoadoutRepository struct {
	mock.Mock
}

func (m *LoadoutRepository) List(ctx context.Context) ([]domain.Loadout, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Loadout)
	return out, args.Error(1)
}

func (m *LoadoutRepository) FindByID(ctx context.Context, id string) (*domain.Loadout, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*domain.Loadout)
	return out, args.Error(1)
}

func (m *LoadoutRepository) Create(ctx context.Context, loadout *domain.Loadout) error {
	args := m.Called(ctx, loadout)
	return args.Error(0)
}

func (m *LoadoutRepository) AddVote(ctx context.Context, loadoutID string, userID uint) (int, error) {
	args := m.Called(ctx, loadoutID, userID)
	return args.Int(0), args.Error(1)
}
