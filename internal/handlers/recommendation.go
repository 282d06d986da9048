package handlers

import (
	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/internal/services"
	"github.com/campushive/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recommendationService *services.RecommendationService
}

func NewRecommendationHandler(recommendationService *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

// ForProject returns the best matches for a project
// GET /api/projects/:id/recommendations
func (h *RecommendationHandler) ForProject(c *gin.Context) {
	projectID, ok := paramID(c, "id", "project")
	if !ok {
		return
	}
	matches, err := h.recommendationService.ListForProject(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, matches)
}

// Mine returns the matches across the caller's projects
// GET /api/matches/me
func (h *RecommendationHandler) Mine(c *gin.Context) {
	matches, err := h.recommendationService.ListForOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, matches)
}
