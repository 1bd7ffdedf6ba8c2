package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/realtime"
	"github.com/mroshb/duo_finder/pkg/errors"
	"github.com/mroshb/duo_finder/pkg/logger"
)

const keepAliveInterval = 25 * time.Second

type RealtimeHandler struct {
	feed realtime.Subscriber
}

func NewRealtimeHandler(feed realtime.Subscriber) *RealtimeHandler {
	return &RealtimeHandler{feed: feed}
}

// GET /api/events
// Streams the caller's change-feed events as server-sent events.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)
	events, err := h.feed.Subscribe(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "change feed unavailable"))
		return
	}
	logger.Debug("Event stream open", "user_id", userID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		case <-ticker.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			return err == nil
		case <-c.Request.Context().Done():
			return false
		}
	})
	logger.Debug("Event stream closed", "user_id", userID)
}
