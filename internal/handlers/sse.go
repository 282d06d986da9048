package handlers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/pkg/logger"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SSEHandler streams chat room events with Server-Sent Events.
type SSEHandler struct {
	hub         *services.ChatHub
	chatService *services.ChatService
}

func NewSSEHandler(hub *services.ChatHub, chatService *services.ChatService) *SSEHandler {
	return &SSEHandler{hub: hub, chatService: chatService}
}

// StreamRoom pushes messages and deletions of one room to the client.
// GET /api/chat/rooms/:id/stream
func (h *SSEHandler) StreamRoom(c *gin.Context) {
	roomID, ok := paramID(c, "id", "room")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	if _, err := h.chatService.Authorize(c.Request.Context(), userID, roomID); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientID := uuid.New().String()
	events := h.hub.Subscribe(roomID, clientID)
	defer h.hub.Unsubscribe(roomID, clientID)

	logger.Info().
		Str("client_id", clientID).
		Uint("room_id", roomID).
		Uint("user_id", userID).
		Int("total", h.hub.ClientCount()).
		Msg("SSE client connected")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error().Err(err).Msg("SSE marshal error")
				return true
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			c.Writer.Flush()
			return true
		case <-c.Request.Context().Done():
			logger.Info().Str("client_id", clientID).Msg("SSE client disconnected")
			return false
		}
	})
}
