package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
)

// GormLobbyRoomRepository implements repository.LobbyRoomRepository.
type GormLobbyRoomRepository struct {
	db *gorm.DB
}

func NewGormLobbyRoomRepository(db *gorm.DB) *GormLobbyRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormLobbyRoomRepository")
	}
	return &GormLobbyRoomRepository{db: db}
}

func (r *GormLobbyRoomRepository) List(ctx context.Context) ([]domain.LobbyRoom, error) {
	var rooms []domain.LobbyRoom
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("gorm: list lobby rooms: %w", err)
	}
	return rooms, nil
}

func (r *GormLobbyRoomRepository) FindByID(ctx context.Context, id string) (*domain.LobbyRoom, error) {
	var room domain.LobbyRoom
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find lobby room by id '%s': %w", id, err)
	}
	return &room, nil
}

func (r *GormLobbyRoomRepository) Save(ctx context.Context, room *domain.LobbyRoom) error {
	if err := r.db.WithContext(ctx).Save(room).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save lobby room '%s': %w", room.ID, err)
	}
	return nil
}

func (r *GormLobbyRoomRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.LobbyRoom{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count lobby rooms: %w", err)
	}
	return count, nil
}

// AddPlayer uses a conditional UPDATE so concurrent joins cannot overfill a room.
func (r *GormLobbyRoomRepository) AddPlayer(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.LobbyRoom{}).
		Where("id = ? AND players < max_players", id).
		UpdateColumn("players", gorm.Expr("players + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("gorm: add player to lobby room '%s': %w", id, result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}
	// Nothing updated: either full or missing.
	if _, err := r.FindByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
