package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/middleware"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"
)

// BombGameHandler serves the REST side of the bomb minigame.
type BombGameHandler struct {
	lobby       *service.LobbyService
	leaderboard *service.LeaderboardService
	pick        service.SequencePicker
	timeLimit   time.Duration
}

func NewBombGameHandler(lobby *service.LobbyService, leaderboard *service.LeaderboardService, pick service.SequencePicker, timeLimit time.Duration) *BombGameHandler {
	if lobby == nil || leaderboard == nil {
		panic("services cannot be nil for BombGameHandler")
	}
	if pick == nil {
		pick = service.RandomSequence
	}
	if timeLimit <= 0 {
		timeLimit = domain.DefaultTimeLimit
	}
	return &BombGameHandler{lobby: lobby, leaderboard: leaderboard, pick: pick, timeLimit: timeLimit}
}

// Sequence returns a random sequence for solo play.
func (h *BombGameHandler) Sequence(c *gin.Context) {
	seq, err := h.pick()
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"sequence": seq, "time_limit": int(h.timeLimit / time.Second)})
}

type VerifyRequest struct {
	Sequence         string  `json:"sequence"`
	ExpectedSequence string  `json:"expected_sequence"`
	TimeTaken        float64 `json:"time_taken" binding:"gte=0"`
}

// Verify is the stateless check used without a live room.
func (h *BombGameHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "Verify", err)
		return
	}
	outcome := domain.Verify(req.Sequence, req.ExpectedSequence, req.TimeTaken)
	message := "Falha ao desarmar a bomba!"
	if outcome.Success {
		message = "Bomba desarmada com sucesso!"
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"message":    message,
		"success":    outcome.Success,
		"reward":     outcome.Reward,
		"time_taken": req.TimeTaken,
	})
}

func (h *BombGameHandler) ListRooms(c *gin.Context) {
	rooms, err := h.lobby.ListRooms(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"rooms": rooms})
}

type CreateRoomRequest struct {
	Name       string `json:"name" binding:"max=120"`
	Category   string `json:"category" binding:"max=60"`
	MaxPlayers int    `json:"max_players" binding:"gte=0,lte=64"`
}

func (h *BombGameHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	// An empty body means "all defaults".
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, "CreateRoom", err)
			return
		}
	}
	room, err := h.lobby.CreateRoom(c.Request.Context(), middleware.UserID(c), service.CreateLobbyInput{
		Name:       req.Name,
		Category:   req.Category,
		MaxPlayers: req.MaxPlayers,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"message": "Sala criada com sucesso", "room": room})
}

func (h *BombGameHandler) JoinRoom(c *gin.Context) {
	roomID := c.Param("id")
	room, err := h.lobby.JoinRoom(c.Request.Context(), middleware.UserID(c), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Entrou na sala com sucesso", "room": room})
}

func (h *BombGameHandler) Leaderboard(c *gin.Context) {
	limit := queryInt(c, "limit")
	entries, err := h.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"leaderboard": entries})
}

// History lists the caller's recorded rounds; requires Auth.
func (h *BombGameHandler) History(c *gin.Context) {
	records, err := h.leaderboard.History(c.Request.Context(), middleware.UserID(c), queryInt(c, "limit"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"rounds": records})
}

// queryInt returns zero for a missing or malformed parameter.
func queryInt(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logrus.WithField(name, raw).Debug("Ignoring malformed query parameter")
		return 0
	}
	return v
}
