package handlers

import (
	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	membershipService *services.MembershipService
}

func NewMemberHandler(membershipService *services.MembershipService) *MemberHandler {
	return &MemberHandler{membershipService: membershipService}
}

// List returns the project's members
// GET /api/projects/:id/members
func (h *MemberHandler) List(c *gin.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	members, err := h.membershipService.ListMembers(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

// Add adds a member to the project
// POST /api/projects/:id/members
func (h *MemberHandler) Add(c *gin.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	var in services.AddMemberInput
	if !bindJSON(c, &in) {
		return
	}

	member, err := h.membershipService.AddMember(c.Request.Context(), middleware.GetUserID(c), projectID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Remove removes a member from the project
// DELETE /api/projects/:id/members/:userId
func (h *MemberHandler) Remove(c *gin.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(c.Request.Context(), middleware.GetUserID(c), projectID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "member removed")
}
