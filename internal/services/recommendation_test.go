package services

import (
	"context"
	"testing"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/pkg/response"
)

func TestRecommendations(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	svc := NewRecommendationService(st)

	owner := seedUser(t, st, "owner")
	candidate := seedUser(t, st, "candidate")
	project := seedProject(t, st, owner.ID)
	second := seedProject(t, st, owner.ID)

	for i := 0; i < 12; i++ {
		m := &models.TeamMatch{
			UserID:            owner.ID,
			RecommendedUserID: candidate.ID,
			ProjectID:         project.ID,
			Score:             float64(i) / 12,
		}
		if err := st.TeamMatches.Insert(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.TeamMatches.Insert(ctx, &models.TeamMatch{
		UserID: owner.ID, RecommendedUserID: candidate.ID, ProjectID: second.ID, Score: 0.99,
	}); err != nil {
		t.Fatal(err)
	}

	matches, err := svc.ListForProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(matches) != projectRecommendationLimit {
		t.Fatalf("expected %d matches, got %d", projectRecommendationLimit, len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("matches not sorted by score: %v then %v", matches[i-1].Score, matches[i].Score)
		}
	}
	if matches[0].RecommendedUser == nil || matches[0].RecommendedUser.Name != "candidate" {
		t.Errorf("recommended user not preloaded")
	}

	_, err = svc.ListForProject(ctx, 999)
	assertKind(t, err, response.KindNotFound)

	mine, err := svc.ListForOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(mine) != 13 || mine[0].ProjectID != second.ID {
		t.Errorf("unexpected owner matches: %d, first project %d", len(mine), mine[0].ProjectID)
	}

	none, err := svc.ListForOwner(ctx, candidate.ID)
	if err != nil || len(none) != 0 {
		t.Errorf("ListForOwner for non-owner = %v, %v", none, err)
	}
}
