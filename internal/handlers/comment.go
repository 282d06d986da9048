package handlers

import (
	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List returns a project's comments
// GET /api/projects/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	comments, err := h.commentService.ListForProject(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

// Create adds a comment
// POST /api/projects/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	var in services.CreateCommentInput
	if !bindJSON(c, &in) {
		return
	}
	comment, err := h.commentService.Create(c.Request.Context(), middleware.GetUserID(c), projectID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// Thread returns a comment and its replies
// GET /api/comments/:id/thread
func (h *CommentHandler) Thread(c *gin.Context) {
	id, ok := paramID(c, "id", "comment")
	if !ok {
		return
	}
	thread, err := h.commentService.Thread(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, thread)
}

// Delete removes the caller's comment
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "comment")
	if !ok {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "comment deleted")
}
