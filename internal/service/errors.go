package service

import (
	"errors"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username already exists")
	ErrUnauthenticated      = errors.New("user not authenticated")
	ErrInternalServer       = errors.New("internal server error")

	ErrInvalidPayload    = errors.New("invalid payload")
	ErrInvalidTimeLimit  = errors.New("invalid time limit")
	ErrInvalidCatalogRef = errors.New("invalid weapon or skin")
	ErrUnknownGame       = errors.New("unknown game")
	ErrSelfFollow        = errors.New("users cannot follow themselves")

	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrNotInRoom       = errors.New("participant is not in this room")
	ErrLoadoutNotFound = errors.New("loadout not found")
	ErrClipNotFound    = errors.New("clip not found")
	ErrGameNotFound    = errors.New("game not found")

	ErrRoundInProgress  = errors.New("a round is already active in this room")
	ErrNoActiveRound    = errors.New("no active round in this room")
	ErrStaleRound       = errors.New("round is no longer active")
	ErrOutcomeConflict  = errors.New("submitted outcome conflicts with server state")
	ErrDuplicateVote    = errors.New("user already voted for this loadout")
	ErrDuplicateLike    = errors.New("user already liked this clip")
	ErrIdentityMismatch = errors.New("user_id does not match the authenticated user")
)

// mapRepoError turns storage errors into service errors. notFound is returned
// for repository.ErrNotFound so each caller can name what was missing.
func mapRepoError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	default:
		return ErrInternalServer
	}
}
