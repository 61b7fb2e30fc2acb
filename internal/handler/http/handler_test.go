package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/middleware"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository/mocks"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noPresence struct{}

func (noPresence) MemberCount(domain.Namespace, string) int { return 0 }

// withUser stands in for the Auth middleware.
func withUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != 0 {
			c.Set(middleware.ContextUserID, id)
		}
		c.Next()
	}
}

func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandleServiceError(t *testing.T) {
	cases := map[error]int{
		service.ErrUnauthenticated:   http.StatusUnauthorized,
		service.ErrInvalidTimeLimit:  http.StatusBadRequest,
		service.ErrRoomFull:          http.StatusBadRequest,
		service.ErrLoadoutNotFound:   http.StatusNotFound,
		service.ErrDuplicateVote:     http.StatusConflict,
		service.ErrOutcomeConflict:   http.StatusConflict,
		errors.New("boom"):           http.StatusInternalServerError,
		service.ErrInvalidCatalogRef: http.StatusBadRequest,
		service.ErrUnknownGame:       http.StatusBadRequest,
		service.ErrSelfFollow:        http.StatusBadRequest,
		service.ErrClipNotFound:      http.StatusNotFound,
		service.ErrGameNotFound:      http.StatusNotFound,
		service.ErrDuplicateLike:     http.StatusConflict,
	}
	for err, code := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		HandleServiceError(c, err)
		assert.Equal(t, code, w.Code, err.Error())
	}
}

func newBombRouter(t *testing.T, userID uint) (*gin.Engine, *mocks.LobbyRoomRepository, *mocks.StateRepository) {
	t.Helper()
	rooms := new(mocks.LobbyRoomRepository)
	state := new(mocks.StateRepository)
	rounds := new(mocks.RoundRecordRepository)
	h := NewBombGameHandler(
		service.NewLobbyService(rooms, noPresence{}),
		service.NewLeaderboardService(state, rounds),
		func() (string, error) { return "AQWERTY", nil },
		60*time.Second,
	)
	r := gin.New()
	g := r.Group("/api/bomb_game", withUser(userID))
	g.GET("/sequence", h.Sequence)
	g.POST("/verify", h.Verify)
	g.GET("/rooms", h.ListRooms)
	g.POST("/rooms", h.CreateRoom)
	g.POST("/rooms/:id/join", h.JoinRoom)
	g.GET("/leaderboard", h.Leaderboard)
	return r, rooms, state
}

func TestBombGameHandler_Sequence(t *testing.T) {
	r, _, _ := newBombRouter(t, 0)
	w := perform(r, http.MethodGet, "/api/bomb_game/sequence", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "AQWERTY", body["sequence"])
	assert.Equal(t, float64(60), body["time_limit"])
}

func TestBombGameHandler_Verify(t *testing.T) {
	r, _, _ := newBombRouter(t, 0)

	w := perform(r, http.MethodPost, "/api/bomb_game/verify", gin.H{"sequence": "SEEWQWA", "expected_sequence": "SEEWQWA", "time_taken": 15})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(85), body["reward"])
	assert.Equal(t, float64(15), body["time_taken"])

	w = perform(r, http.MethodPost, "/api/bomb_game/verify", gin.H{"sequence": "X", "expected_sequence": "SEEWQWA", "time_taken": 3})
	body = decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(0), body["reward"])
}

func TestBombGameHandler_CreateRoomRequiresUser(t *testing.T) {
	r, rooms, _ := newBombRouter(t, 0)
	w := perform(r, http.MethodPost, "/api/bomb_game/rooms", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	rooms.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBombGameHandler_CreateAndJoinRoom(t *testing.T) {
	r, rooms, _ := newBombRouter(t, 5)

	rooms.On("Count", mock.Anything).Return(int64(3), nil).Once()
	rooms.On("Save", mock.Anything, mock.AnythingOfType("*domain.LobbyRoom")).Return(nil).Once()
	w := perform(r, http.MethodPost, "/api/bomb_game/rooms", gin.H{"category": "Jogos"})
	require.Equal(t, http.StatusCreated, w.Code)
	room := decode(t, w)["room"].(map[string]interface{})
	assert.Equal(t, "Sala #4", room["name"])
	assert.Equal(t, "Jogos", room["category"])
	assert.Equal(t, "Aguardando", room["status"])

	rooms.On("AddPlayer", mock.Anything, "room2").Return(false, nil).Once()
	w = perform(r, http.MethodPost, "/api/bomb_game/rooms/room2/join", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	rooms.On("AddPlayer", mock.Anything, "missing").Return(false, repository.ErrRoomNotFound).Once()
	w = perform(r, http.MethodPost, "/api/bomb_game/rooms/missing/join", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	rooms.AssertExpectations(t)
}

func TestBombGameHandler_Leaderboard(t *testing.T) {
	r, _, state := newBombRouter(t, 0)
	state.On("TopRewards", mock.Anything, 3).Return([]domain.LeaderboardEntry{{UserID: 2, Reward: 400, Rank: 1}}, nil).Once()

	w := perform(r, http.MethodGet, "/api/bomb_game/leaderboard?limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode(t, w)["leaderboard"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, float64(400), entries[0].(map[string]interface{})["reward"])
	state.AssertExpectations(t)
}

func newLoadoutRouter(userID uint) (*gin.Engine, *mocks.CatalogRepository, *mocks.LoadoutRepository, *mocks.UserRepository) {
	catalog := new(mocks.CatalogRepository)
	loadouts := new(mocks.LoadoutRepository)
	users := new(mocks.UserRepository)
	h := NewLoadoutHandler(service.NewCatalogService(catalog, loadouts, users))
	r := gin.New()
	g := r.Group("/api/loadout", withUser(userID))
	g.GET("/skins", h.Skins)
	g.POST("/loadouts", h.CreateLoadout)
	g.POST("/loadouts/:id/vote", h.Vote)
	return r, catalog, loadouts, users
}

func TestLoadoutHandler_SkinsFilter(t *testing.T) {
	r, catalog, _, _ := newLoadoutRouter(0)
	catalog.On("ListSkins", mock.Anything, "weapon1").Return([]domain.Skin{{ID: "skin1", WeaponID: "weapon1"}}, nil).Once()

	w := perform(r, http.MethodGet, "/api/loadout/skins?weapon_id=weapon1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["skins"], 1)
	catalog.AssertExpectations(t)
}

func TestLoadoutHandler_CreateLoadout(t *testing.T) {
	r, catalog, loadouts, users := newLoadoutRouter(2)
	catalog.On("FindWeapon", mock.Anything, "weapon1").Return(&domain.Weapon{ID: "weapon1"}, nil)
	catalog.On("FindSkin", mock.Anything, "skin1").Return(&domain.Skin{ID: "skin1"}, nil)
	catalog.On("FindSkin", mock.Anything, "skin9").Return(nil, repository.ErrNotFound)
	users.On("FindByID", mock.Anything, uint(2)).Return(&domain.User{ID: 2, Username: "ana"}, nil)
	loadouts.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	w := perform(r, http.MethodPost, "/api/loadout/loadouts", gin.H{"weapon_id": "weapon1", "skin_id": "skin1"})
	require.Equal(t, http.StatusCreated, w.Code)
	l := decode(t, w)["loadout"].(map[string]interface{})
	assert.Equal(t, "#FFFFFF", l["color"])
	assert.Equal(t, "ana", l["username"])

	w = perform(r, http.MethodPost, "/api/loadout/loadouts", gin.H{"weapon_id": "weapon1", "skin_id": "skin9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/api/loadout/loadouts", gin.H{"weapon_id": "weapon1"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "skin_id is required")

	w = perform(r, http.MethodPost, "/api/loadout/loadouts", gin.H{"weapon_id": "weapon1", "skin_id": "skin1", "color": "blue"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoadoutHandler_Vote(t *testing.T) {
	r, _, loadouts, _ := newLoadoutRouter(2)
	loadouts.On("AddVote", mock.Anything, "loadout1", uint(2)).Return(121, nil).Once()
	loadouts.On("AddVote", mock.Anything, "loadout1", uint(2)).Return(0, repository.ErrDuplicateEntry).Once()
	loadouts.On("AddVote", mock.Anything, "nope", uint(2)).Return(0, repository.ErrLoadoutNotFound).Once()

	w := perform(r, http.MethodPost, "/api/loadout/loadouts/loadout1/vote", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(121), decode(t, w)["votes"])

	assert.Equal(t, http.StatusConflict, perform(r, http.MethodPost, "/api/loadout/loadouts/loadout1/vote", nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodPost, "/api/loadout/loadouts/nope/vote", nil).Code)
}

func newClipRouter(userID uint) (*gin.Engine, *mocks.ClipRepository, *mocks.GameRepository, *mocks.UserRepository) {
	clips := new(mocks.ClipRepository)
	games := new(mocks.GameRepository)
	users := new(mocks.UserRepository)
	h := NewClipHandler(service.NewClipService(clips, games, users))
	r := gin.New()
	g := r.Group("/api/clips", withUser(userID))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.POST("/:id/like", h.Like)
	return r, clips, games, users
}

func TestClipHandler_ListAndGet(t *testing.T) {
	r, clips, _, _ := newClipRouter(0)
	clips.On("List", mock.Anything, domain.ClipFilter{Category: "Destaque", Game: "Fortnite"}).
		Return([]domain.Clip{{ID: "c1", Game: "Fortnite", Category: "Destaque"}}, nil).Once()
	clips.On("FindByID", mock.Anything, "c1").Return(&domain.Clip{ID: "c1", Title: "ace"}, nil).Once()
	clips.On("FindByID", mock.Anything, "nope").Return(nil, repository.ErrClipNotFound).Once()

	w := perform(r, http.MethodGet, "/api/clips?category=Destaque&game=Fortnite", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["clips"], 1)

	w = perform(r, http.MethodGet, "/api/clips/c1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ace", decode(t, w)["clip"].(map[string]interface{})["title"])

	w = perform(r, http.MethodGet, "/api/clips/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, service.ErrClipNotFound.Error(), decode(t, w)["message"])
	clips.AssertExpectations(t)
}

func TestClipHandler_Create(t *testing.T) {
	r, clips, games, users := newClipRouter(3)
	games.On("FindByName", mock.Anything, "Valorant").Return(&domain.Game{ID: "game5", Name: "Valorant"}, nil)
	games.On("FindByName", mock.Anything, "Tetris").Return(nil, repository.ErrGameNotFound)
	users.On("FindByID", mock.Anything, uint(3)).Return(&domain.User{ID: 3, Username: "bia"}, nil)
	clips.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	w := perform(r, http.MethodPost, "/api/clips", gin.H{"title": "Ace", "game": "Valorant"})
	require.Equal(t, http.StatusCreated, w.Code)
	clip := decode(t, w)["clip"].(map[string]interface{})
	assert.Equal(t, "bia", clip["username"])
	assert.Equal(t, domain.DefaultClipCategory, clip["category"])

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/api/clips", gin.H{"title": "Ace", "game": "Tetris"}).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/api/clips", gin.H{"game": "Valorant"}).Code, "title is required")
	clips.AssertExpectations(t)
}

func TestClipHandler_CreateRequiresUser(t *testing.T) {
	r, _, _, _ := newClipRouter(0)
	w := perform(r, http.MethodPost, "/api/clips", gin.H{"title": "Ace", "game": "Valorant"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClipHandler_Like(t *testing.T) {
	r, clips, _, _ := newClipRouter(2)
	clips.On("AddLike", mock.Anything, "c1", uint(2)).Return(7, nil).Once()
	clips.On("AddLike", mock.Anything, "c1", uint(2)).Return(0, repository.ErrDuplicateEntry).Once()

	w := perform(r, http.MethodPost, "/api/clips/c1/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), decode(t, w)["likes"])
	assert.Equal(t, http.StatusConflict, perform(r, http.MethodPost, "/api/clips/c1/like", nil).Code)
}

func newRankingRouter(userID uint) (*gin.Engine, *mocks.FollowRepository, *mocks.GameRepository, *mocks.UserRepository) {
	follows := new(mocks.FollowRepository)
	games := new(mocks.GameRepository)
	users := new(mocks.UserRepository)
	h := NewRankingHandler(service.NewRankingService(follows, games, users))
	r := gin.New()
	g := r.Group("/api/ranking", withUser(userID))
	g.GET("", h.Ranking)
	g.GET("/games", h.Games)
	g.POST("/follow/:user_id", h.Follow)
	g.POST("/unfollow/:user_id", h.Unfollow)
	return r, follows, games, users
}

func TestRankingHandler_Ranking(t *testing.T) {
	r, follows, _, _ := newRankingRouter(0)
	follows.On("Rank", mock.Anything, repository.RankQuery{Limit: service.RankingLimit}).
		Return([]domain.PlayerStats{{UserID: 1, Username: "ProGamer123", Followers: 2}}, nil).Once()

	w := perform(r, http.MethodGet, "/api/ranking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ranking := decode(t, w)["ranking"].([]interface{})
	require.Len(t, ranking, 1)
	entry := ranking[0].(map[string]interface{})
	assert.Equal(t, float64(1), entry["rank"])
	assert.Equal(t, false, entry["following"])

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/api/ranking?filter=following", nil).Code)
}

func TestRankingHandler_Games(t *testing.T) {
	r, _, games, _ := newRankingRouter(0)
	games.On("List", mock.Anything).Return([]domain.Game{{ID: "game1", Name: "Fortnite"}}, nil).Once()

	w := perform(r, http.MethodGet, "/api/ranking/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["games"], 1)
}

func TestRankingHandler_FollowAndUnfollow(t *testing.T) {
	r, follows, _, users := newRankingRouter(7)
	users.On("FindByID", mock.Anything, uint(2)).Return(&domain.User{ID: 2, Username: "GameMaster"}, nil)
	users.On("FindByID", mock.Anything, uint(7)).Return(&domain.User{ID: 7, Username: "me"}, nil)
	users.On("FindByID", mock.Anything, uint(42)).Return(nil, repository.ErrUserNotFound)
	follows.On("Follow", mock.Anything, uint(7), uint(2)).Return(nil).Once()
	follows.On("Unfollow", mock.Anything, uint(7), uint(2)).Return(true, nil).Once()

	w := perform(r, http.MethodPost, "/api/ranking/follow/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Agora você está seguindo GameMaster", decode(t, w)["message"])

	w = perform(r, http.MethodPost, "/api/ranking/unfollow/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Você deixou de seguir GameMaster", decode(t, w)["message"])

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/api/ranking/follow/7", nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodPost, "/api/ranking/follow/42", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/api/ranking/follow/abc", nil).Code)
	follows.AssertExpectations(t)
}
