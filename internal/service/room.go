package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultLobbyCategory is used when a lobby room is created without a category.
const DefaultLobbyCategory = "Geral"

// PresenceCounter reports live room membership. The hub implements it.
type PresenceCounter interface {
	MemberCount(ns domain.Namespace, room string) int
}

// CreateLobbyInput carries the optional fields of a new lobby room.
type CreateLobbyInput struct {
	Name       string
	Category   string
	MaxPlayers int
}

// LobbyService manages the persisted bomb game lobby listing.
type LobbyService struct {
	roomRepo repository.LobbyRoomRepository
	presence PresenceCounter
}

func NewLobbyService(roomRepo repository.LobbyRoomRepository, presence PresenceCounter) *LobbyService {
	if roomRepo == nil {
		panic("LobbyRoomRepository cannot be nil for LobbyService")
	}
	if presence == nil {
		panic("PresenceCounter cannot be nil for LobbyService")
	}
	return &LobbyService{roomRepo: roomRepo, presence: presence}
}

// ListRooms returns every lobby room with its live member count.
func (s *LobbyService) ListRooms(ctx context.Context) ([]domain.LobbyRoom, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("ListRooms: repository error")
		return nil, ErrInternalServer
	}
	if rooms == nil {
		rooms = []domain.LobbyRoom{}
	}
	for i := range rooms {
		rooms[i].Online = s.presence.MemberCount(domain.NamespaceBomb, rooms[i].ID)
	}
	return rooms, nil
}

// CreateRoom stores a new lobby room with the creator counted as its first player.
func (s *LobbyService) CreateRoom(ctx context.Context, creatorID uint, in CreateLobbyInput) (*domain.LobbyRoom, error) {
	logCtx := logrus.WithField("creator_id", creatorID)
	if creatorID == 0 {
		return nil, ErrUnauthenticated
	}
	if in.MaxPlayers < 0 {
		return nil, ErrInvalidPayload
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		count, err := s.roomRepo.Count(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to count lobby rooms")
			return nil, ErrInternalServer
		}
		name = fmt.Sprintf("Sala #%d", count+1)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultLobbyCategory
	}
	maxPlayers := in.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = domain.DefaultLobbyCapacity
	}

	room := &domain.LobbyRoom{
		ID:         uuid.NewString(),
		Name:       name,
		Category:   category,
		Players:    1,
		MaxPlayers: maxPlayers,
		Status:     domain.LobbyStatusWaiting,
		CreatorID:  creatorID,
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save new lobby room")
		return nil, ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{"room_id": room.ID, "name": room.Name}).Info("Lobby room created")
	return room, nil
}

// JoinRoom counts one more player into a lobby room.
func (s *LobbyService) JoinRoom(ctx context.Context, userID uint, roomID string) (*domain.LobbyRoom, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	added, err := s.roomRepo.AddPlayer(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("JoinRoom: room not found")
		} else {
			logCtx.WithError(err).Error("JoinRoom: repository error")
		}
		return nil, mapRepoError(err, ErrRoomNotFound)
	}
	if !added {
		logCtx.Info("JoinRoom: room is full")
		return nil, ErrRoomFull
	}

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, mapRepoError(err, ErrRoomNotFound)
	}
	room.Online = s.presence.MemberCount(domain.NamespaceBomb, room.ID)
	logCtx.WithField("players", room.Players).Info("User joined lobby room")
	return room, nil
}
