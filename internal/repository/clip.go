package repository

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// ClipRepository stores clip metadata and likes.
type ClipRepository interface {
	// List returns clips matching filter, newest first.
	List(ctx context.Context, filter domain.ClipFilter) ([]domain.Clip, error)

	// FindByID returns ErrClipNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (*domain.Clip, error)

	Create(ctx context.Context, clip *domain.Clip) error

	// AddLike records one like by userID and returns the new like count. A
	// second like by the same user yields ErrDuplicateEntry and an unknown
	// clip yields ErrClipNotFound.
	AddLike(ctx context.Context, clipID string, userID uint) (int, error)
}
