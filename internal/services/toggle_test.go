package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
	"golang.org/x/sync/errgroup"
)

func TestToggle_UpvotePairsWithCounter(t *testing.T) {
	for _, transactional := range []bool{true, false} {
		st := newTestStore(t, transactional)
		ctx := context.Background()
		owner := seedUser(t, st, "owner")
		voter := seedUser(t, st, "voter")
		project := seedProject(t, st, owner.ID)
		svc := NewToggleService(st)

		on, err := svc.Toggle(ctx, RelationUpvote, voter.ID, project.ID)
		if err != nil {
			t.Fatalf("first toggle: %v", err)
		}
		if !on {
			t.Error("first toggle should create the upvote")
		}
		if got := reloadProject(t, st, project.ID).UpvoteCount; got != 1 {
			t.Errorf("transactional=%v: upvote_count = %d, want 1", transactional, got)
		}

		on, err = svc.Toggle(ctx, RelationUpvote, voter.ID, project.ID)
		if err != nil {
			t.Fatalf("second toggle: %v", err)
		}
		if on {
			t.Error("second toggle should remove the upvote")
		}
		if got := reloadProject(t, st, project.ID).UpvoteCount; got != 0 {
			t.Errorf("transactional=%v: upvote_count = %d, want 0", transactional, got)
		}

		status, err := svc.Status(ctx, RelationUpvote, voter.ID, project.ID)
		if err != nil || status {
			t.Errorf("Status = %v, %v; want false, nil", status, err)
		}
	}
}

func TestToggle_BookmarkLeavesCountersAlone(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	owner := seedUser(t, st, "owner")
	reader := seedUser(t, st, "reader")
	project := seedProject(t, st, owner.ID)
	svc := NewToggleService(st)

	on, err := svc.Toggle(ctx, RelationBookmark, reader.ID, project.ID)
	if err != nil || !on {
		t.Fatalf("Toggle = %v, %v; want true, nil", on, err)
	}
	p := reloadProject(t, st, project.ID)
	if p.UpvoteCount != 0 || p.MemberCount != 1 || p.CommentCount != 0 {
		t.Errorf("bookmark moved a counter: %+v", p)
	}

	saved, err := svc.ListBookmarkedProjects(ctx, reader.ID)
	if err != nil {
		t.Fatalf("ListBookmarkedProjects: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != project.ID {
		t.Errorf("expected the bookmarked project, got %+v", saved)
	}
}

func TestToggle_CounterNeverNegative(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	owner := seedUser(t, st, "owner")
	voter := seedUser(t, st, "voter")
	project := seedProject(t, st, owner.ID)

	// an upvote row without its increment, as left by a partial write
	if err := st.Upvotes.Insert(ctx, &models.Upvote{ProjectID: project.ID, UserID: voter.ID}); err != nil {
		t.Fatal(err)
	}

	on, err := NewToggleService(st).Toggle(ctx, RelationUpvote, voter.ID, project.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if on {
		t.Error("toggle should have removed the existing upvote")
	}
	if got := reloadProject(t, st, project.ID).UpvoteCount; got != 0 {
		t.Errorf("upvote_count = %d, want 0", got)
	}
}

func TestToggle_Errors(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	user := seedUser(t, st, "user")
	svc := NewToggleService(st)

	_, err := svc.Toggle(ctx, RelationUpvote, user.ID, 999)
	assertKind(t, err, response.KindNotFound)

	_, err = svc.Toggle(ctx, RelationUpvote, user.ID, 0)
	assertKind(t, err, response.KindValidation)

	_, err = svc.Toggle(ctx, RelationKind("like"), user.ID, 1)
	assertKind(t, err, response.KindValidation)
}

func TestToggle_ConcurrentVoters(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	owner := seedUser(t, st, "owner")
	project := seedProject(t, st, owner.ID)
	svc := NewToggleService(st)

	const voters = 8
	users := make([]*models.User, voters)
	for i := range users {
		users[i] = seedUser(t, st, "voter"+string(rune('a'+i)))
	}

	var g errgroup.Group
	for _, u := range users {
		u := u
		g.Go(func() error {
			_, err := svc.Toggle(ctx, RelationUpvote, u.ID, project.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent toggles: %v", err)
	}

	rows, err := st.Upvotes.Count(ctx, store.Filter{"project_id": project.ID})
	if err != nil {
		t.Fatal(err)
	}
	if rows != voters {
		t.Errorf("upvote rows = %d, want %d", rows, voters)
	}
	if got := reloadProject(t, st, project.ID).UpvoteCount; int64(got) != rows {
		t.Errorf("upvote_count = %d, rows = %d", got, rows)
	}
}

func TestToggle_SameUserRacingStaysConsistent(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	owner := seedUser(t, st, "owner")
	voter := seedUser(t, st, "voter")
	project := seedProject(t, st, owner.ID)
	svc := NewToggleService(st)

	var g errgroup.Group
	for i := 0; i < 5; i++ {
		g.Go(func() error {
			_, err := svc.Toggle(ctx, RelationUpvote, voter.ID, project.ID)
			if err != nil {
				// a lost race is reported as a conflict, never as a failure
				var appErr *response.AppError
				if errors.As(err, &appErr) && appErr.Kind == response.KindConflict {
					return nil
				}
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("racing toggles: %v", err)
	}

	rows, err := st.Upvotes.Count(ctx, store.Filter{"project_id": project.ID, "user_id": voter.ID})
	if err != nil {
		t.Fatal(err)
	}
	if rows > 1 {
		t.Fatalf("unique index let %d rows through", rows)
	}
	if got := reloadProject(t, st, project.ID).UpvoteCount; int64(got) != rows {
		t.Errorf("upvote_count = %d, rows = %d", got, rows)
	}
}
