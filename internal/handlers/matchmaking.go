package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/services"
)

type MatchmakingHandler struct {
	matchmaking *services.MatchmakingService
	queue       *services.QueueService
}

func NewMatchmakingHandler(matchmaking *services.MatchmakingService, queue *services.QueueService) *MatchmakingHandler {
	return &MatchmakingHandler{matchmaking: matchmaking, queue: queue}
}

type matchmakingResponse struct {
	Matched bool            `json:"matched"`
	Entry   *QueueEntryView `json:"entry,omitempty"`
	Match   *MatchView      `json:"match,omitempty"`
}

// POST /api/matchmaking
// Queues the caller and tries to pair them right away.
func (h *MatchmakingHandler) Start(c *gin.Context) {
	var prefs models.MatchmakingPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, err)
		return
	}

	userID := middleware.UserID(c)
	outcome, err := h.matchmaking.StartMatchmaking(c.Request.Context(), userID, prefs)
	if err != nil {
		RespondError(c, err)
		return
	}

	resp := matchmakingResponse{Matched: outcome.Matched()}
	if outcome.Matched() {
		view := newMatchView(outcome.Match, userID)
		resp.Match = &view
		c.JSON(http.StatusCreated, resp)
		return
	}
	resp.Entry = newQueueEntryView(outcome.Entry)
	c.JSON(http.StatusAccepted, resp)
}

// GET /api/matchmaking
func (h *MatchmakingHandler) Status(c *gin.Context) {
	entry, err := h.queue.Status(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"waiting": entry != nil, "entry": newQueueEntryView(entry)})
}

// DELETE /api/matchmaking
func (h *MatchmakingHandler) Cancel(c *gin.Context) {
	if err := h.matchmaking.Cancel(c.Request.Context(), middleware.UserID(c)); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
