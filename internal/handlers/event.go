package handlers

import (
	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List returns events by start time
// GET /api/events?domain=&event_type=&upcoming=true
func (h *EventHandler) List(c *gin.Context) {
	var q services.EventListQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.eventService.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GET /api/events/:id
func (h *EventHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id", "event")
	if !ok {
		return
	}
	event, err := h.eventService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, event)
}

// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var in services.EventInput
	if !bindJSON(c, &in) {
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// PUT /api/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "event")
	if !ok {
		return
	}
	var in services.EventInput
	if !bindJSON(c, &in) {
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), middleware.GetUserID(c), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, event)
}

// DELETE /api/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "event")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "event deleted")
}
