package mocks

import (
	"context"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"

	"github.com/stretchr/testify/mock"
)

type LobbyRoomRepository struct {
	mock.Mock
}

func (m *LobbyRoomRepository) List(ctx context.Context) ([]domain.LobbyRoom, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]domain.LobbyRoom)
	return rooms, args.Error(1)
}

func (m *LobbyRoomRepository) FindByID(ctx context.Context, id string) (*domain.LobbyRoom, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*domain.LobbyRoom)
	return room, args.Error(1)
}

func (m *LobbyRoomRepository) Save(ctx context.Context, room *domain.LobbyRoom) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *LobbyRoomRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LobbyRoomRepository) AddPlayer(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
