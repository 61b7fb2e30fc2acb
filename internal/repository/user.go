package repository

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// UserRepository stores accounts.
type UserRepository interface {
	// FindByUsername returns ErrUserNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID returns ErrUserNotFound when no account matches.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Save creates the user when ID is zero and updates it otherwise. A taken
	// username or email yields ErrDuplicateEntry.
	Save(ctx context.Context, user *domain.User) error
}
