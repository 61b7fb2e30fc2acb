package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxClipTitleLength bounds a clip title in characters.
const MaxClipTitleLength = 200

// CreateClipInput is the body of a new clip.
type CreateClipInput struct {
	Title    string
	Game     string
	Category string
}

// ClipService serves clip metadata and likes.
type ClipService struct {
	clips repository.ClipRepository
	games repository.GameRepository
	users repository.UserRepository
}

func NewClipService(clips repository.ClipRepository, games repository.GameRepository, users repository.UserRepository) *ClipService {
	if clips == nil || games == nil || users == nil {
		panic("repositories cannot be nil for ClipService")
	}
	return &ClipService{clips: clips, games: games, users: users}
}

// List returns clips matching filter, newest first.
func (s *ClipService) List(ctx context.Context, filter domain.ClipFilter) ([]domain.Clip, error) {
	out, err := s.clips.List(ctx, filter)
	if err != nil {
		logrus.WithFields(logrus.Fields{"category": filter.Category, "game": filter.Game}).WithError(err).Error("Failed to list clips")
		return nil, ErrInternalServer
	}
	if out == nil {
		out = []domain.Clip{}
	}
	return out, nil
}

func (s *ClipService) Get(ctx context.Context, id string) (*domain.Clip, error) {
	clip, err := s.clips.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithField("clip_id", id).WithError(err).Error("Failed to load clip")
		}
		return nil, mapRepoError(err, ErrClipNotFound)
	}
	return clip, nil
}

// Create stores clip metadata for userID. The game must be in the catalog so
// the ranking's per-game filter can find the clip.
func (s *ClipService) Create(ctx context.Context, userID uint, in CreateClipInput) (*domain.Clip, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "game": in.Game})
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(title) > MaxClipTitleLength {
		return nil, ErrInvalidPayload
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = domain.DefaultClipCategory
	}

	if _, err := s.games.FindByName(ctx, in.Game); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logCtx.WithError(err).Error("Failed to look up game")
		}
		return nil, mapRepoError(err, ErrUnknownGame)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to load clip owner")
		return nil, mapRepoError(err, ErrUserNotFound)
	}

	clip := &domain.Clip{
		ID:        uuid.NewString(),
		Title:     title,
		UserID:    userID,
		Username:  user.Username,
		Game:      in.Game,
		Category:  category,
		URL:       domain.PlaceholderClipURL,
		Thumbnail: domain.PlaceholderClipThumbnail,
	}
	if err := s.clips.Create(ctx, clip); err != nil {
		logCtx.WithError(err).Error("Failed to save clip")
		return nil, ErrInternalServer
	}
	logCtx.WithField("clip_id", clip.ID).Info("Clip created")
	return clip, nil
}

// Like adds one like from userID and returns the new total.
func (s *ClipService) Like(ctx context.Context, userID uint, clipID string) (int, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "clip_id": clipID})
	if userID == 0 {
		return 0, ErrUnauthenticated
	}
	likes, err := s.clips.AddLike(ctx, clipID, userID)
	switch {
	case err == nil:
		logCtx.WithField("likes", likes).Info("Clip like recorded")
		return likes, nil
	case errors.Is(err, repository.ErrDuplicateEntry):
		logCtx.Info("Duplicate clip like rejected")
		return 0, ErrDuplicateLike
	case errors.Is(err, repository.ErrClipNotFound):
		return 0, ErrClipNotFound
	default:
		logCtx.WithError(err).Error("Failed to record clip like")
		return 0, ErrInternalServer
	}
}
