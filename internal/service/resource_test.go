package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository/mocks"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakePresence map[string]int

func (p fakePresence) MemberCount(ns domain.Namespace, room string) int {
	if ns != domain.NamespaceBomb {
		return 0
	}
	return p[room]
}

// --- LobbyService ---

func TestLobbyService_ListRooms_FillsOnline(t *testing.T) {
	repo := new(mocks.LobbyRoomRepository)
	svc := service.NewLobbyService(repo, fakePresence{"room1": 3})
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.LobbyRoom{{ID: "room1"}, {ID: "room2"}}, nil).Once()

	rooms, err := svc.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, 3, rooms[0].Online)
	assert.Equal(t, 0, rooms[1].Online)
	repo.AssertExpectations(t)
}

func TestLobbyService_CreateRoom_Defaults(t *testing.T) {
	repo := new(mocks.LobbyRoomRepository)
	svc := service.NewLobbyService(repo, fakePresence{})
	ctx := context.Background()

	repo.On("Count", ctx).Return(int64(3), nil).Once()
	repo.On("Save", ctx, mock.AnythingOfType("*domain.LobbyRoom")).Return(nil).Once()

	room, err := svc.CreateRoom(ctx, 8, service.CreateLobbyInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "Sala #4", room.Name)
	assert.Equal(t, service.DefaultLobbyCategory, room.Category)
	assert.Equal(t, domain.DefaultLobbyCapacity, room.MaxPlayers)
	assert.Equal(t, 1, room.Players)
	assert.Equal(t, domain.LobbyStatusWaiting, room.Status)
	assert.Equal(t, uint(8), room.CreatorID)
	repo.AssertExpectations(t)
}

func TestLobbyService_CreateRoom_Explicit(t *testing.T) {
	repo := new(mocks.LobbyRoomRepository)
	svc := service.NewLobbyService(repo, fakePresence{})
	ctx := context.Background()

	repo.On("Save", ctx, mock.AnythingOfType("*domain.LobbyRoom")).Return(nil).Once()

	room, err := svc.CreateRoom(ctx, 8, service.CreateLobbyInput{Name: "Night", Category: "Jogos", MaxPlayers: 4})
	require.NoError(t, err)
	assert.Equal(t, "Night", room.Name)
	assert.Equal(t, 4, room.MaxPlayers)
	repo.AssertNotCalled(t, "Count", mock.Anything)

	_, err = svc.CreateRoom(ctx, 0, service.CreateLobbyInput{})
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))
}

func TestLobbyService_JoinRoom(t *testing.T) {
	repo := new(mocks.LobbyRoomRepository)
	svc := service.NewLobbyService(repo, fakePresence{"room1": 2})
	ctx := context.Background()

	repo.On("AddPlayer", ctx, "room1").Return(true, nil).Once()
	repo.On("FindByID", ctx, "room1").Return(&domain.LobbyRoom{ID: "room1", Players: 9, MaxPlayers: 16}, nil).Once()
	repo.On("AddPlayer", ctx, "full").Return(false, nil).Once()
	repo.On("AddPlayer", ctx, "ghost").Return(false, repository.ErrRoomNotFound).Once()

	room, err := svc.JoinRoom(ctx, 1, "room1")
	require.NoError(t, err)
	assert.Equal(t, 9, room.Players)
	assert.Equal(t, 2, room.Online)

	_, err = svc.JoinRoom(ctx, 1, "full")
	assert.True(t, errors.Is(err, service.ErrRoomFull))

	_, err = svc.JoinRoom(ctx, 1, "ghost")
	assert.True(t, errors.Is(err, service.ErrRoomNotFound))
	repo.AssertExpectations(t)
}

// --- CatalogService ---

func newCatalogService() (*service.CatalogService, *mocks.CatalogRepository, *mocks.LoadoutRepository, *mocks.UserRepository) {
	catalog := new(mocks.CatalogRepository)
	loadouts := new(mocks.LoadoutRepository)
	users := new(mocks.UserRepository)
	return service.NewCatalogService(catalog, loadouts, users), catalog, loadouts, users
}

func TestCatalogService_CreateLoadout(t *testing.T) {
	svc, catalog, loadouts, users := newCatalogService()
	ctx := context.Background()

	catalog.On("FindWeapon", ctx, "weapon1").Return(&domain.Weapon{ID: "weapon1"}, nil).Once()
	catalog.On("FindSkin", ctx, "skin1").Return(&domain.Skin{ID: "skin1"}, nil).Once()
	users.On("FindByID", ctx, uint(2)).Return(&domain.User{ID: 2, Username: "ProGamer123"}, nil).Once()
	loadouts.On("Create", ctx, mock.MatchedBy(func(l *domain.Loadout) bool {
		return l.WeaponID == "weapon1" && l.Color == domain.DefaultLoadoutColor && l.Username == "ProGamer123"
	})).Return(nil).Once()

	l, err := svc.CreateLoadout(ctx, 2, service.CreateLoadoutInput{WeaponID: "weapon1", SkinID: "skin1", Stickers: []string{"sticker1"}})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, []string{"sticker1"}, l.Stickers)
	assert.Equal(t, 0, l.Votes)
	catalog.AssertExpectations(t)
	loadouts.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestCatalogService_CreateLoadout_UnknownSkin(t *testing.T) {
	svc, catalog, loadouts, _ := newCatalogService()
	ctx := context.Background()

	catalog.On("FindWeapon", ctx, "weapon1").Return(&domain.Weapon{ID: "weapon1"}, nil).Once()
	catalog.On("FindSkin", ctx, "nope").Return(nil, repository.ErrNotFound).Once()

	_, err := svc.CreateLoadout(ctx, 2, service.CreateLoadoutInput{WeaponID: "weapon1", SkinID: "nope"})
	assert.True(t, errors.Is(err, service.ErrInvalidCatalogRef))
	loadouts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateLoadout_RejectsBadInput(t *testing.T) {
	svc, _, _, _ := newCatalogService()
	ctx := context.Background()

	_, err := svc.CreateLoadout(ctx, 0, service.CreateLoadoutInput{WeaponID: "w", SkinID: "s"})
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))

	_, err = svc.CreateLoadout(ctx, 1, service.CreateLoadoutInput{WeaponID: "w", SkinID: "s", Color: "red"})
	assert.True(t, errors.Is(err, service.ErrInvalidPayload))

	_, err = svc.CreateLoadout(ctx, 1, service.CreateLoadoutInput{SkinID: "s"})
	assert.True(t, errors.Is(err, service.ErrInvalidCatalogRef))
}

func TestCatalogService_Vote(t *testing.T) {
	svc, _, loadouts, _ := newCatalogService()
	ctx := context.Background()

	loadouts.On("AddVote", ctx, "loadout1", uint(3)).Return(121, nil).Once()
	loadouts.On("AddVote", ctx, "loadout1", uint(4)).Return(0, repository.ErrDuplicateEntry).Once()
	loadouts.On("AddVote", ctx, "missing", uint(3)).Return(0, repository.ErrLoadoutNotFound).Once()

	votes, err := svc.Vote(ctx, 3, "loadout1")
	require.NoError(t, err)
	assert.Equal(t, 121, votes)

	_, err = svc.Vote(ctx, 4, "loadout1")
	assert.True(t, errors.Is(err, service.ErrDuplicateVote))

	_, err = svc.Vote(ctx, 3, "missing")
	assert.True(t, errors.Is(err, service.ErrLoadoutNotFound))
	loadouts.AssertExpectations(t)
}

func TestCatalogService_ListsNeverNil(t *testing.T) {
	svc, catalog, _, _ := newCatalogService()
	ctx := context.Background()

	catalog.On("ListSkins", ctx, "weapon9").Return(nil, nil).Once()
	catalog.On("ListStickers", ctx).Return(nil, errors.New("db down")).Once()

	skins, err := svc.Skins(ctx, "weapon9")
	require.NoError(t, err)
	assert.NotNil(t, skins)

	_, err = svc.Stickers(ctx)
	assert.True(t, errors.Is(err, service.ErrInternalServer))
}

// --- LeaderboardService ---

func TestLeaderboardService_TopClampsLimit(t *testing.T) {
	state := new(mocks.StateRepository)
	rounds := new(mocks.RoundRecordRepository)
	svc := service.NewLeaderboardService(state, rounds)
	ctx := context.Background()

	entries := []domain.LeaderboardEntry{{UserID: 1, Reward: 300, Rank: 1}}
	state.On("TopRewards", ctx, 10).Return(entries, nil).Once()
	state.On("TopRewards", ctx, 100).Return(nil, nil).Once()

	got, err := svc.Top(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	got, err = svc.Top(ctx, 5000)
	require.NoError(t, err)
	assert.Empty(t, got)
	state.AssertExpectations(t)
}

func TestLeaderboardService_History(t *testing.T) {
	state := new(mocks.StateRepository)
	rounds := new(mocks.RoundRecordRepository)
	svc := service.NewLeaderboardService(state, rounds)
	ctx := context.Background()

	rounds.On("ListByUser", ctx, uint(5), 20).Return([]domain.RoundRecord{{RoundID: "a"}}, nil).Once()

	got, err := svc.History(ctx, 5, 20)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.History(ctx, 0, 20)
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))
	rounds.AssertExpectations(t)
}
