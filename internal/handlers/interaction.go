package handlers

import (
	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// InteractionHandler serves the upvote and bookmark toggles.
type InteractionHandler struct {
	toggleService *services.ToggleService
}

func NewInteractionHandler(toggleService *services.ToggleService) *InteractionHandler {
	return &InteractionHandler{toggleService: toggleService}
}

// POST /api/projects/:id/upvote
func (h *InteractionHandler) ToggleUpvote(c *gin.Context) {
	h.toggle(c, services.RelationUpvote, "upvoted")
}

// GET /api/projects/:id/upvote
func (h *InteractionHandler) UpvoteStatus(c *gin.Context) {
	h.status(c, services.RelationUpvote, "upvoted")
}

// POST /api/projects/:id/bookmark
func (h *InteractionHandler) ToggleBookmark(c *gin.Context) {
	h.toggle(c, services.RelationBookmark, "bookmarked")
}

// GET /api/projects/:id/bookmark
func (h *InteractionHandler) BookmarkStatus(c *gin.Context) {
	h.status(c, services.RelationBookmark, "bookmarked")
}

func (h *InteractionHandler) toggle(c *gin.Context, kind services.RelationKind, key string) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	on, err := h.toggleService.Toggle(c.Request.Context(), kind, middleware.GetUserID(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{key: on})
}

func (h *InteractionHandler) status(c *gin.Context, kind services.RelationKind, key string) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	on, err := h.toggleService.Status(c.Request.Context(), kind, middleware.GetUserID(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{key: on})
}
