package repository

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// RoundRecordRepository stores the history of settled bomb rounds.
type RoundRecordRepository interface {
	// Save inserts a record. A record with an already stored RoundID yields
	// ErrDuplicateEntry, so redelivered tasks can be treated as done.
	Save(ctx context.Context, record *domain.RoundRecord) error

	// FindByRoundID returns ErrNotFound when the round was never recorded.
	FindByRoundID(ctx context.Context, roundID string) (*domain.RoundRecord, error)

	// ListByUser returns the user's most recent rounds, newest first.
	ListByUser(ctx context.Context, userID uint, limit int) ([]domain.RoundRecord, error)
}
