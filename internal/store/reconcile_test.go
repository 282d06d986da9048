package store

import (
	"context"
	"testing"

	"github.com/campushive/backend/internal/models"
)

func TestRecountProject(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()
	owner := seedUser(t, s, "owner@campus.edu")
	voter := seedUser(t, s, "voter@campus.edu")
	p := seedProject(t, s, owner.ID)

	for _, row := range []interface{}{
		&models.ProjectMember{ProjectID: p.ID, UserID: owner.ID, Role: models.MemberRoleOwner},
		&models.Upvote{ProjectID: p.ID, UserID: owner.ID},
		&models.Upvote{ProjectID: p.ID, UserID: voter.ID},
		&models.Comment{ProjectID: p.ID, UserID: voter.ID, Content: "nice"},
	} {
		if err := s.DB().Create(row).Error; err != nil {
			t.Fatal(err)
		}
	}

	changed, err := s.RecountProject(ctx, p.ID)
	if err != nil || !changed {
		t.Fatalf("RecountProject = %v, %v; want drift repaired", changed, err)
	}
	got, _ := s.Projects.Get(ctx, p.ID)
	if got.MemberCount != 1 || got.UpvoteCount != 2 || got.CommentCount != 1 {
		t.Errorf("counters = %d/%d/%d, want 1/2/1", got.MemberCount, got.UpvoteCount, got.CommentCount)
	}

	changed, err = s.RecountProject(ctx, p.ID)
	if err != nil || changed {
		t.Errorf("second recount = %v, %v; want no change", changed, err)
	}
	if changed, err := s.RecountProject(ctx, 999); err != nil || changed {
		t.Errorf("missing project = %v, %v", changed, err)
	}
}

func TestRebuildUserRefs(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()
	u := seedUser(t, s, "u@campus.edu")
	other := seedUser(t, s, "o@campus.edu")
	mine := seedProject(t, s, u.ID)
	theirs := seedProject(t, s, other.ID)
	gone := seedProject(t, s, other.ID)

	for _, m := range []*models.ProjectMember{
		{ProjectID: mine.ID, UserID: u.ID, Role: models.MemberRoleOwner},
		{ProjectID: theirs.ID, UserID: u.ID, Role: models.MemberRoleCollaborator},
		{ProjectID: gone.ID, UserID: u.ID, Role: models.MemberRoleViewer},
	} {
		if err := s.Members.Insert(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Projects.DeleteOne(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.SetUserRefs(ctx, u.ID, models.RefJoinedTeams, []uint{gone.ID}); err != nil {
		t.Fatal(err)
	}

	changed, err := s.RebuildUserRefs(ctx, u.ID)
	if err != nil || !changed {
		t.Fatalf("RebuildUserRefs = %v, %v; want rebuilt", changed, err)
	}
	got, _ := s.Users.Get(ctx, u.ID)
	if len(got.PostedProjects) != 1 || got.PostedProjects[0] != mine.ID {
		t.Errorf("posted_projects = %v", got.PostedProjects)
	}
	if len(got.JoinedTeams) != 1 || got.JoinedTeams[0] != theirs.ID {
		t.Errorf("joined_teams = %v", got.JoinedTeams)
	}

	if changed, err := s.RebuildUserRefs(ctx, u.ID); err != nil || changed {
		t.Errorf("second rebuild = %v, %v; want no change", changed, err)
	}
}

func TestSameIDs(t *testing.T) {
	tests := []struct {
		name string
		a, b []uint
		want bool
	}{
		{"order ignored", []uint{1, 2}, []uint{2, 1}, true},
		{"multiplicity counts", []uint{1, 1}, []uint{1, 2}, false},
		{"nil equals empty", nil, []uint{}, true},
		{"length differs", []uint{1}, []uint{1, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameIDs(tt.a, tt.b); got != tt.want {
				t.Errorf("sameIDs(%v, %v) = %v", tt.a, tt.b, got)
			}
		})
	}
}
