package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/middleware"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"
)

// RankingHandler serves the player ranking and the follow graph.
type RankingHandler struct {
	ranking *service.RankingService
}

func NewRankingHandler(ranking *service.RankingService) *RankingHandler {
	if ranking == nil {
		panic("RankingService cannot be nil for RankingHandler")
	}
	return &RankingHandler{ranking: ranking}
}

// Ranking reads filter (default global) and game_id. Mounted behind
// OptionalAuth so the following flags reflect the caller.
func (h *RankingHandler) Ranking(c *gin.Context) {
	filter := c.DefaultQuery("filter", service.RankingGlobal)
	out, err := h.ranking.Ranking(c.Request.Context(), middleware.UserID(c), filter, c.Query("game_id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"ranking": out})
}

func (h *RankingHandler) Games(c *gin.Context) {
	out, err := h.ranking.Games(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"games": out})
}

func (h *RankingHandler) Follow(c *gin.Context) {
	targetID, ok := userIDParam(c)
	if !ok {
		return
	}
	target, err := h.ranking.Follow(c.Request.Context(), middleware.UserID(c), targetID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": fmt.Sprintf("Agora você está seguindo %s", target.Username)})
}

func (h *RankingHandler) Unfollow(c *gin.Context) {
	targetID, ok := userIDParam(c)
	if !ok {
		return
	}
	target, err := h.ranking.Unfollow(c.Request.Context(), middleware.UserID(c), targetID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": fmt.Sprintf("Você deixou de seguir %s", target.Username)})
}

// userIDParam parses :user_id and answers 400 itself when it is not a
// positive integer.
func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return uint(id), true
}
