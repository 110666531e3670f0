package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const streamHeartbeatInterval = 15 * time.Second

func (h *httpHandler) handleListActivities(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
			return
		}
		limit = parsed
	}

	activities, err := h.store.ListActivities(c.Request.Context(), limit)
	if err != nil {
		h.renderStoreError(c, "list_activities", err)
		return
	}
	c.JSON(http.StatusOK, toActivityPayloads(activities))
}

func (h *httpHandler) handleListBoxActivities(c *gin.Context) {
	boxID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	activities, err := h.store.ListBoxActivities(c.Request.Context(), boxID)
	if err != nil {
		h.renderStoreError(c, "list_box_activities", err)
		return
	}
	c.JSON(http.StatusOK, toActivityPayloads(activities))
}

// handleActivityStream serves the live activity feed as server-sent events.
// Heartbeats keep idle connections from being reaped by intermediaries.
func (h *httpHandler) handleActivityStream(c *gin.Context) {
	stream, cleanup := h.dispatcher.Subscribe(c.Request.Context())
	defer cleanup()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case activity, open := <-stream:
			if !open {
				return
			}
			c.SSEvent(ActivityStreamEventName, toActivityPayload(activity))
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent(streamEventHeartbeat, gin.H{"time": time.Now().UTC()})
			c.Writer.Flush()
		}
	}
}
