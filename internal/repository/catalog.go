package repository

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// CatalogRepository reads the cosmetic catalog.
type CatalogRepository interface {
	ListWeapons(ctx context.Context) ([]domain.Weapon, error)

	// ListSkins filters by weapon when weaponID is not empty.
	ListSkins(ctx context.Context, weaponID string) ([]domain.Skin, error)

	ListStickers(ctx context.Context) ([]domain.Sticker, error)

	// FindWeapon and FindSkin return ErrNotFound for unknown ids.
	FindWeapon(ctx context.Context, id string) (*domain.Weapon, error)
	FindSkin(ctx context.Context, id string) (*domain.Skin, error)
}

// LoadoutRepository stores user loadouts and their votes.
type LoadoutRepository interface {
	// List returns loadouts, most voted first.
	List(ctx context.Context) ([]domain.Loadout, error)

	// FindByID returns ErrLoadoutNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (*domain.Loadout, error)

	Create(ctx context.Context, loadout *domain.Loadout) error

	// AddVote records one vote by userID and returns the new vote count. A
	// second vote by the same user yields ErrDuplicateEntry and an unknown
	// loadout yields ErrLoadoutNotFound.
	AddVote(ctx context.Context, loadoutID string, userID uint) (int, error)
}
