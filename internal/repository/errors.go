package repository

import "errors"

// Storage errors shared by every repository implementation.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means a write violated a unique constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

var (
	ErrUserNotFound    = ErrNotFound
	ErrRoomNotFound    = ErrNotFound
	ErrLoadoutNotFound = ErrNotFound
	ErrClipNotFound    = ErrNotFound
	ErrGameNotFound    = ErrNotFound
)
