package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CreateLoadoutInput is the body of a persisted loadout.
type CreateLoadoutInput struct {
	WeaponID string
	SkinID   string
	Stickers []string
	Color    string
}

// CatalogService serves the cosmetic catalog and persisted loadouts.
type CatalogService struct {
	catalog  repository.CatalogRepository
	loadouts repository.LoadoutRepository
	users    repository.UserRepository
}

func NewCatalogService(catalog repository.CatalogRepository, loadouts repository.LoadoutRepository, users repository.UserRepository) *CatalogService {
	if catalog == nil || loadouts == nil || users == nil {
		panic("repositories cannot be nil for CatalogService")
	}
	return &CatalogService{catalog: catalog, loadouts: loadouts, users: users}
}

func (s *CatalogService) Weapons(ctx context.Context) ([]domain.Weapon, error) {
	out, err := s.catalog.ListWeapons(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list weapons")
		return nil, ErrInternalServer
	}
	if out == nil {
		out = []domain.Weapon{}
	}
	return out, nil
}

// Skins lists every skin, or only those of weaponID when it is set.
func (s *CatalogService) Skins(ctx context.Context, weaponID string) ([]domain.Skin, error) {
	out, err := s.catalog.ListSkins(ctx, weaponID)
	if err != nil {
		logrus.WithField("weapon_id", weaponID).WithError(err).Error("Failed to list skins")
		return nil, ErrInternalServer
	}
	if out == nil {
		out = []domain.Skin{}
	}
	return out, nil
}

func (s *CatalogService) Stickers(ctx context.Context) ([]domain.Sticker, error) {
	out, err := s.catalog.ListStickers(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list stickers")
		return nil, ErrInternalServer
	}
	if out == nil {
		out = []domain.Sticker{}
	}
	return out, nil
}

func (s *CatalogService) Loadouts(ctx context.Context) ([]domain.Loadout, error) {
	out, err := s.loadouts.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list loadouts")
		return nil, ErrInternalServer
	}
	if out == nil {
		out = []domain.Loadout{}
	}
	return out, nil
}

// CreateLoadout persists a loadout after checking the weapon and skin exist.
func (s *CatalogService) CreateLoadout(ctx context.Context, userID uint, in CreateLoadoutInput) (*domain.Loadout, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "weapon_id": in.WeaponID, "skin_id": in.SkinID})
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if len(in.Stickers) > MaxDraftStickers {
		return nil, ErrInvalidPayload
	}
	color := in.Color
	if color == "" {
		color = domain.DefaultLoadoutColor
	} else if !hexColor.MatchString(color) {
		return nil, ErrInvalidPayload
	}

	if err := s.checkCatalogRefs(ctx, in.WeaponID, in.SkinID); err != nil {
		if !errors.Is(err, ErrInvalidCatalogRef) {
			logCtx.WithError(err).Error("Failed to validate catalog references")
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to load loadout owner")
		return nil, mapRepoError(err, ErrUserNotFound)
	}

	stickers := append([]string{}, in.Stickers...)
	loadout := &domain.Loadout{
		ID:       uuid.NewString(),
		UserID:   userID,
		Username: user.Username,
		WeaponID: in.WeaponID,
		SkinID:   in.SkinID,
		Stickers: stickers,
		Color:    color,
	}
	if err := s.loadouts.Create(ctx, loadout); err != nil {
		logCtx.WithError(err).Error("Failed to save loadout")
		return nil, ErrInternalServer
	}
	logCtx.WithField("loadout_id", loadout.ID).Info("Loadout created")
	return loadout, nil
}

// Vote adds one vote from userID and returns the new total.
func (s *CatalogService) Vote(ctx context.Context, userID uint, loadoutID string) (int, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "loadout_id": loadoutID})
	if userID == 0 {
		return 0, ErrUnauthenticated
	}
	votes, err := s.loadouts.AddVote(ctx, loadoutID, userID)
	switch {
	case err == nil:
		logCtx.WithField("votes", votes).Info("Loadout vote recorded")
		return votes, nil
	case errors.Is(err, repository.ErrDuplicateEntry):
		logCtx.Info("Duplicate loadout vote rejected")
		return 0, ErrDuplicateVote
	case errors.Is(err, repository.ErrLoadoutNotFound):
		return 0, ErrLoadoutNotFound
	default:
		logCtx.WithError(err).Error("Failed to record loadout vote")
		return 0, ErrInternalServer
	}
}

func (s *CatalogService) checkCatalogRefs(ctx context.Context, weaponID, skinID string) error {
	if weaponID == "" || skinID == "" {
		return ErrInvalidCatalogRef
	}
	if _, err := s.catalog.FindWeapon(ctx, weaponID); err != nil {
		return mapRepoError(err, ErrInvalidCatalogRef)
	}
	if _, err := s.catalog.FindSkin(ctx, skinID); err != nil {
		return mapRepoError(err, ErrInvalidCatalogRef)
	}
	return nil
}
