package handlers

import (
	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   *services.UserService
	toggleService *services.ToggleService
}

func NewUserHandler(userService *services.UserService, toggleService *services.ToggleService) *UserHandler {
	return &UserHandler{userService: userService, toggleService: toggleService}
}

// GetByID returns a user's profile
// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateMe edits the caller's profile
// PUT /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var in services.UpdateProfileInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// MyBookmarks lists the projects the caller bookmarked
// GET /api/users/me/bookmarks
func (h *UserHandler) MyBookmarks(c *gin.Context) {
	projects, err := h.toggleService.ListBookmarkedProjects(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, projects)
}
