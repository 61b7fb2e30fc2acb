package repository

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
)

// LobbyRoomRepository stores the bomb game lobby listing. Live membership is
// not stored here; it belongs to the in-memory session registry.
type LobbyRoomRepository interface {
	// List returns every lobby room, oldest first.
	List(ctx context.Context) ([]domain.LobbyRoom, error)

	// FindByID returns ErrRoomNotFound when the room does not exist.
	FindByID(ctx context.Context, id string) (*domain.LobbyRoom, error)

	// Save creates or updates a lobby room.
	Save(ctx context.Context, room *domain.LobbyRoom) error

	// Count returns the number of lobby rooms.
	Count(ctx context.Context) (int64, error)

	// AddPlayer atomically increments the player count if the room is not
	// full. It reports false when the room is full and ErrRoomNotFound when
	// it does not exist.
	AddPlayer(ctx context.Context, id string) (bool, error)
}
