package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/dto"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestLoadoutService_SubmitDraft_LastWriterWins(t *testing.T) {
	bc := &fakeBroadcaster{}
	svc := service.NewLoadoutService(bc)
	ctx := context.Background()

	first := domain.Draft{WeaponID: "1", SkinID: "1", Stickers: []string{"1"}, Color: "#FF0000"}
	second := domain.Draft{WeaponID: "2", SkinID: "3", Color: "#00FF00"}

	require.NoError(t, svc.SubmitDraft(ctx, "room", first))
	require.NoError(t, svc.SubmitDraft(ctx, "room", second))

	got, ok := svc.GetDraft("room")
	require.True(t, ok)
	assert.Equal(t, "2", got.WeaponID)
	assert.Equal(t, []string{}, got.Stickers)

	assert.Equal(t, []string{dto.EventLoadoutUpdated, dto.EventLoadoutUpdated}, bc.events())
	call := bc.last()
	assert.Equal(t, domain.NamespaceLoadout, call.NS)
	assert.Equal(t, dto.LoadoutUpdated{Loadout: domain.Draft{WeaponID: "2", SkinID: "3", Stickers: []string{}, Color: "#00FF00"}}, call.Payload)
}

func TestLoadoutService_SubmitDraft_CopiesInput(t *testing.T) {
	svc := service.NewLoadoutService(&fakeBroadcaster{})
	stickers := []string{"1", "2"}
	require.NoError(t, svc.SubmitDraft(context.Background(), "room", domain.Draft{WeaponID: "1", SkinID: "1", Stickers: stickers}))

	stickers[0] = "mutated"
	got, _ := svc.GetDraft("room")
	assert.Equal(t, []string{"1", "2"}, got.Stickers)
}

func TestLoadoutService_SubmitDraft_RejectsMalformed(t *testing.T) {
	bc := &fakeBroadcaster{}
	svc := service.NewLoadoutService(bc)
	ctx := context.Background()

	bad := []domain.Draft{
		{SkinID: "1"},
		{WeaponID: "1"},
		{WeaponID: "1", SkinID: "1", Stickers: []string{"1", "2", "3", "4", "5", "6"}},
	}
	for _, d := range bad {
		assert.True(t, errors.Is(svc.SubmitDraft(ctx, "room", d), service.ErrInvalidPayload))
	}
	_, ok := svc.GetDraft("room")
	assert.False(t, ok)
	assert.Empty(t, bc.events())
}

func TestLoadoutService_CastVote(t *testing.T) {
	bc := &fakeBroadcaster{}
	svc := service.NewLoadoutService(bc)
	ctx := context.Background()

	votes, err := svc.CastVote(ctx, "room", "L1", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, votes)

	votes, err = svc.CastVote(ctx, "room", "L1", 2, uintPtr(2))
	require.NoError(t, err)
	assert.Equal(t, 2, votes)
	assert.Equal(t, dto.VoteReceived{LoadoutID: "L1", UserID: 2, Votes: 2}, bc.last().Payload)

	_, err = svc.CastVote(ctx, "room", "L1", 1, nil)
	assert.True(t, errors.Is(err, service.ErrDuplicateVote))

	// The same user may vote for a different loadout, and again in another room.
	_, err = svc.CastVote(ctx, "room", "L2", 1, nil)
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, "other", "L1", 1, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"L1": 2, "L2": 1}, svc.Tally("room"))
	assert.Len(t, bc.events(), 4)
}

func TestLoadoutService_CastVote_Identity(t *testing.T) {
	bc := &fakeBroadcaster{}
	svc := service.NewLoadoutService(bc)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, "room", "L1", 0, nil)
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))

	_, err = svc.CastVote(ctx, "room", "L1", 3, uintPtr(4))
	assert.True(t, errors.Is(err, service.ErrIdentityMismatch))

	assert.Empty(t, bc.events())
	assert.Empty(t, svc.Tally("room"))
}

func TestLoadoutService_ConcurrentVotesAreCounted(t *testing.T) {
	svc := service.NewLoadoutService(&fakeBroadcaster{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 40; i++ {
		wg.Add(1)
		go func(user uint) {
			defer wg.Done()
			_, _ = svc.CastVote(ctx, "room", "L1", user, nil)
			_, _ = svc.CastVote(ctx, "room", "L1", user, nil)
		}(uint(i))
	}
	wg.Wait()
	assert.Equal(t, 40, svc.Tally("room")["L1"])
}

func TestLoadoutService_ReleaseRoom(t *testing.T) {
	svc := service.NewLoadoutService(&fakeBroadcaster{})
	ctx := context.Background()

	require.NoError(t, svc.SubmitDraft(ctx, "room", domain.Draft{WeaponID: "1", SkinID: "1"}))
	_, err := svc.CastVote(ctx, "room", "L1", 1, nil)
	require.NoError(t, err)

	svc.ReleaseRoom(domain.NamespaceBomb, "room")
	_, ok := svc.GetDraft("room")
	assert.True(t, ok, "bomb namespace release must not touch loadout rooms")

	svc.ReleaseRoom(domain.NamespaceLoadout, "room")
	_, ok = svc.GetDraft("room")
	assert.False(t, ok)
	assert.Empty(t, svc.Tally("room"))

	// A released room starts fresh, so the earlier voter may vote again.
	_, err = svc.CastVote(ctx, "room", "L1", 1, nil)
	assert.NoError(t, err)
}

func TestLoadoutService_JoinRoomCatchesUpDraft(t *testing.T) {
	svc := service.NewLoadoutService(&fakeBroadcaster{})
	var caughtUp []dto.LoadoutUpdated
	catchUp := func(u dto.LoadoutUpdated) { caughtUp = append(caughtUp, u) }

	svc.JoinRoom("room", func() {}, catchUp)
	assert.Empty(t, caughtUp)

	draft := domain.Draft{WeaponID: "1", SkinID: "2", Stickers: []string{"3"}, Color: "#FFFFFF"}
	require.NoError(t, svc.SubmitDraft(context.Background(), "room", draft))
	svc.JoinRoom("room", func() {}, catchUp)
	require.Len(t, caughtUp, 1)
	assert.Equal(t, draft, caughtUp[0].Loadout)
}

func TestLoadoutService_ReleaseRoomKeepsRepopulatedRoom(t *testing.T) {
	bc := &fakeBroadcaster{}
	svc := service.NewLoadoutService(bc)
	require.NoError(t, svc.SubmitDraft(context.Background(), "room", domain.Draft{WeaponID: "1", SkinID: "1"}))

	bc.setMembers(domain.NamespaceLoadout, "room", 2)
	svc.ReleaseRoom(domain.NamespaceLoadout, "room")
	_, ok := svc.GetDraft("room")
	assert.True(t, ok)
}
