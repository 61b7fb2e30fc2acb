package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/middleware"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"
)

// ClipHandler serves clip metadata and likes.
type ClipHandler struct {
	clips *service.ClipService
}

func NewClipHandler(clips *service.ClipService) *ClipHandler {
	if clips == nil {
		panic("ClipService cannot be nil for ClipHandler")
	}
	return &ClipHandler{clips: clips}
}

// List accepts optional category and game filters.
func (h *ClipHandler) List(c *gin.Context) {
	out, err := h.clips.List(c.Request.Context(), domain.ClipFilter{
		Category: c.Query("category"),
		Game:     c.Query("game"),
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"clips": out})
}

func (h *ClipHandler) Get(c *gin.Context) {
	clip, err := h.clips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"clip": clip})
}

type CreateClipRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Game     string `json:"game" binding:"required,max=120"`
	Category string `json:"category" binding:"omitempty,max=120"`
}

func (h *ClipHandler) Create(c *gin.Context) {
	var req CreateClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "CreateClip", err)
		return
	}
	clip, err := h.clips.Create(c.Request.Context(), middleware.UserID(c), service.CreateClipInput{
		Title:    req.Title,
		Game:     req.Game,
		Category: req.Category,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"message": "Clipe criado com sucesso", "clip": clip})
}

func (h *ClipHandler) Like(c *gin.Context) {
	likes, err := h.clips.Like(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Clipe curtido com sucesso", "likes": likes})
}
