package services

import (
	"context"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
)

const (
	projectRecommendationLimit = 10
	ownerRecommendationLimit   = 20
)

// RecommendationService reads TeamMatch rows written by the offline
// matcher. It never scores anything itself.
type RecommendationService struct {
	store *store.Store
}

func NewRecommendationService(st *store.Store) *RecommendationService {
	return &RecommendationService{store: st}
}

// ListForProject returns the 10 best-scored matches for the project.
func (s *RecommendationService) ListForProject(ctx context.Context, projectID uint) ([]models.TeamMatch, error) {
	if ok, err := s.store.Projects.Exists(ctx, store.Filter{"id": projectID}); err != nil {
		return nil, storeErr(err, "list recommendations", "project")
	} else if !ok {
		return nil, response.NewNotFound("project not found")
	}

	matches, err := s.store.TeamMatches.Find(ctx, store.Filter{"project_id": projectID},
		store.OrderBy("score DESC, id ASC"),
		store.Limit(projectRecommendationLimit),
		store.Preload("RecommendedUser"),
	)
	if err != nil {
		return nil, storeErr(err, "list recommendations", "match")
	}
	return matches, nil
}

// ListForOwner returns the best matches across every project userID owns.
func (s *RecommendationService) ListForOwner(ctx context.Context, userID uint) ([]models.TeamMatch, error) {
	projectIDs, err := store.Pluck[models.Project, uint](ctx, s.store.Projects, "id", store.Filter{"owner_id": userID})
	if err != nil {
		return nil, storeErr(err, "list my matches", "project")
	}
	if len(projectIDs) == 0 {
		return []models.TeamMatch{}, nil
	}

	matches, err := s.store.TeamMatches.Find(ctx, nil,
		store.Where("project_id IN ?", projectIDs),
		store.OrderBy("score DESC, id ASC"),
		store.Limit(ownerRecommendationLimit),
		store.Preload("RecommendedUser"),
	)
	if err != nil {
		return nil, storeErr(err, "list my matches", "match")
	}
	return matches, nil
}
