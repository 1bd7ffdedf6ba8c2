package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/services"
)

type MatchHandler struct {
	matches *services.MatchService
}

func NewMatchHandler(matches *services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// GET /api/matches
func (h *MatchHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	matches, err := h.matches.History(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	views := make([]MatchView, 0, len(matches))
	for i := range matches {
		views = append(views, newMatchView(&matches[i], userID))
	}
	RespondOK(c, gin.H{"matches": views})
}

// GET /api/matches/:id
func (h *MatchHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)
	match, err := h.matches.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, newMatchView(match, userID))
}

type statusRequest struct {
	Status models.MatchStatus `json:"status" binding:"required"`
}

// PATCH /api/matches/:id/status
func (h *MatchHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID := middleware.UserID(c)
	match, err := h.matches.SetStatus(c.Request.Context(), c.Param("id"), userID, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, newMatchView(match, userID))
}

type discordRequest struct {
	Shared *bool `json:"shared" binding:"required"`
}

// PATCH /api/matches/:id/discord
func (h *MatchHandler) SetDiscordShared(c *gin.Context) {
	var req discordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID := middleware.UserID(c)
	match, err := h.matches.SetDiscordShared(c.Request.Context(), c.Param("id"), userID, *req.Shared)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, newMatchView(match, userID))
}
