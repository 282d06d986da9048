package handlers

import (
	"strconv"

	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RoomForProject returns the chat room of a project
// GET /api/projects/:id/chat
func (h *ChatHandler) RoomForProject(c *gin.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	room, err := h.chatService.GetRoomForProject(c.Request.Context(), middleware.GetUserID(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, room)
}

// History returns a page of messages in sending order
// GET /api/chat/rooms/:id/messages?limit=50&skip=0
func (h *ChatHandler) History(c *gin.Context) {
	roomID, ok := paramID(c, "id", "room")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		response.BadRequest(c, "limit must be a number")
		return
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		response.BadRequest(c, "skip must be a number")
		return
	}

	msgs, err := h.chatService.History(c.Request.Context(), middleware.GetUserID(c), roomID, limit, skip)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msgs)
}

// Post sends a message to a room
// POST /api/chat/rooms/:id/messages
func (h *ChatHandler) Post(c *gin.Context) {
	roomID, ok := paramID(c, "id", "room")
	if !ok {
		return
	}
	var in services.PostMessageInput
	if !bindJSON(c, &in) {
		return
	}
	msg, err := h.chatService.PostMessage(c.Request.Context(), middleware.GetUserID(c), roomID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Delete removes the caller's message
// DELETE /api/chat/messages/:id
func (h *ChatHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "message")
	if !ok {
		return
	}
	if err := h.chatService.DeleteMessage(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "message deleted")
}
