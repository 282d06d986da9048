package services

import (
	"context"
	"strings"
	"testing"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/pkg/response"
)

func TestComment_CreateAndDelete(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	queue := &recordingQueue{}
	svc := NewCommentService(st, queue)

	owner := seedUser(t, st, "owner")
	reader := seedUser(t, st, "reader")
	project := seedProject(t, st, owner.ID)

	c, err := svc.Create(ctx, reader.ID, project.ID, CreateCommentInput{Content: "  count me in  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Content != "count me in" {
		t.Errorf("content not trimmed: %q", c.Content)
	}
	if got := reloadProject(t, st, project.ID).CommentCount; got != 1 {
		t.Errorf("comment_count = %d, want 1", got)
	}
	tasks := queue.sent()
	if len(tasks) != 1 || tasks[0].UserID != owner.ID || tasks[0].Type != models.NotificationNewComment {
		t.Errorf("expected new_comment for owner, got %+v", tasks)
	}

	// owners are not notified about their own comments
	if _, err := svc.Create(ctx, owner.ID, project.ID, CreateCommentInput{Content: "welcome"}); err != nil {
		t.Fatal(err)
	}
	if n := len(queue.sent()); n != 1 {
		t.Errorf("owner comment produced a notification, total %d", n)
	}

	err = svc.Delete(ctx, owner.ID, c.ID)
	assertKind(t, err, response.KindForbidden)

	if err := svc.Delete(ctx, reader.ID, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := reloadProject(t, st, project.ID).CommentCount; got != 1 {
		t.Errorf("comment_count = %d, want 1", got)
	}
	err = svc.Delete(ctx, reader.ID, c.ID)
	assertKind(t, err, response.KindNotFound)
}

func TestComment_CreateErrors(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	svc := NewCommentService(st, nil)
	user := seedUser(t, st, "user")
	project := seedProject(t, st, user.ID)

	_, err := svc.Create(ctx, user.ID, project.ID, CreateCommentInput{Content: "   "})
	assertKind(t, err, response.KindValidation)
	_, err = svc.Create(ctx, user.ID, project.ID, CreateCommentInput{Content: strings.Repeat("a", maxCommentLength+1)})
	assertKind(t, err, response.KindValidation)
	_, err = svc.Create(ctx, user.ID, 0, CreateCommentInput{Content: "hi"})
	assertKind(t, err, response.KindValidation)
	_, err = svc.Create(ctx, user.ID, 999, CreateCommentInput{Content: "hi"})
	assertKind(t, err, response.KindNotFound)

	if got := reloadProject(t, st, project.ID).CommentCount; got != 0 {
		t.Errorf("failed creates moved comment_count to %d", got)
	}
}

func TestComment_ListAndThread(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	svc := NewCommentService(st, nil)
	owner := seedUser(t, st, "owner")
	reader := seedUser(t, st, "reader")
	project := seedProject(t, st, owner.ID)

	root, err := svc.Create(ctx, reader.ID, project.ID, CreateCommentInput{Content: "question"})
	if err != nil {
		t.Fatal(err)
	}
	reply, err := svc.Create(ctx, owner.ID, project.ID, CreateCommentInput{Content: "answer", ParentID: &root.ID})
	if err != nil {
		t.Fatal(err)
	}
	nested, err := svc.Create(ctx, reader.ID, project.ID, CreateCommentInput{Content: "thanks", ParentID: &reply.ID})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, reader.ID, project.ID, CreateCommentInput{Content: "unrelated"}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.ListForProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(all) != 4 || all[0].ID != root.ID {
		t.Fatalf("expected 4 comments oldest first, got %d", len(all))
	}
	if all[0].Author == nil || all[0].Author.Name != "reader" {
		t.Errorf("author not preloaded: %+v", all[0].Author)
	}

	thread, err := svc.Thread(ctx, root.ID)
	if err != nil {
		t.Fatalf("Thread: %v", err)
	}
	if len(thread) != 3 || thread[1].ID != reply.ID || thread[2].ID != nested.ID {
		t.Errorf("unexpected thread: %+v", thread)
	}

	// replies survive their parent's deletion
	if err := svc.Delete(ctx, owner.ID, reply.ID); err != nil {
		t.Fatal(err)
	}
	thread, err = svc.Thread(ctx, nested.ID)
	if err != nil || len(thread) != 1 {
		t.Errorf("orphaned reply thread = %v, %v", thread, err)
	}

	// a parent id that does not exist is accepted
	missing := uint(9999)
	if _, err := svc.Create(ctx, reader.ID, project.ID, CreateCommentInput{Content: "dangling", ParentID: &missing}); err != nil {
		t.Errorf("unvalidated parent id rejected: %v", err)
	}
}
