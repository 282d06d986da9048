package services

import (
	"context"
	"testing"

	"github.com/campushive/backend/pkg/response"
)

func TestUpdateProfile(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	svc := NewUserService(st)
	asha := seedUser(t, st, "asha")
	seedUser(t, st, "ravi")

	bio := "  systems nerd "
	skills := []string{"go", " go", "sql"}
	u, err := svc.UpdateProfile(ctx, asha.ID, UpdateProfileInput{Bio: &bio, Skills: &skills})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Bio != "systems nerd" {
		t.Errorf("bio = %q", u.Bio)
	}
	if len(u.Skills) != 2 {
		t.Errorf("skills = %v", u.Skills)
	}
	if u.Name != "asha" {
		t.Errorf("untouched name changed to %q", u.Name)
	}

	taken := "ravi@campus.test"
	_, err = svc.UpdateProfile(ctx, asha.ID, UpdateProfileInput{Email: &taken})
	assertKind(t, err, response.KindConflict)

	empty := " "
	_, err = svc.UpdateProfile(ctx, asha.ID, UpdateProfileInput{Name: &empty})
	assertKind(t, err, response.KindValidation)

	_, err = svc.GetProfile(ctx, 999)
	assertKind(t, err, response.KindNotFound)
}
