package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/middleware"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"
)

// LoadoutHandler serves the cosmetic catalog and persisted loadouts.
type LoadoutHandler struct {
	catalog *service.CatalogService
}

func NewLoadoutHandler(catalog *service.CatalogService) *LoadoutHandler {
	if catalog == nil {
		panic("CatalogService cannot be nil for LoadoutHandler")
	}
	return &LoadoutHandler{catalog: catalog}
}

func (h *LoadoutHandler) Weapons(c *gin.Context) {
	out, err := h.catalog.Weapons(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"weapons": out})
}

// Skins accepts an optional weapon_id filter.
func (h *LoadoutHandler) Skins(c *gin.Context) {
	out, err := h.catalog.Skins(c.Request.Context(), c.Query("weapon_id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"skins": out})
}

func (h *LoadoutHandler) Stickers(c *gin.Context) {
	out, err := h.catalog.Stickers(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"stickers": out})
}

func (h *LoadoutHandler) Loadouts(c *gin.Context) {
	out, err := h.catalog.Loadouts(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"loadouts": out})
}

type CreateLoadoutRequest struct {
	WeaponID string   `json:"weapon_id" binding:"required,max=64"`
	SkinID   string   `json:"skin_id" binding:"required,max=64"`
	Stickers []string `json:"stickers" binding:"max=5,dive,required,max=64"`
	Color    string   `json:"color" binding:"omitempty,hexcolor"`
}

func (h *LoadoutHandler) CreateLoadout(c *gin.Context) {
	var req CreateLoadoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, "CreateLoadout", err)
		return
	}
	loadout, err := h.catalog.CreateLoadout(c.Request.Context(), middleware.UserID(c), service.CreateLoadoutInput{
		WeaponID: req.WeaponID,
		SkinID:   req.SkinID,
		Stickers: req.Stickers,
		Color:    req.Color,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"message": "Loadout criado com sucesso", "loadout": loadout})
}

func (h *LoadoutHandler) Vote(c *gin.Context) {
	votes, err := h.catalog.Vote(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Voto registrado com sucesso", "votes": votes})
}
