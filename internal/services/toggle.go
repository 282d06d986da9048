package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/logger"
	"github.com/campushive/backend/pkg/response"
)

// RelationKind names a toggle relation between a user and a project.
type RelationKind string

const (
	RelationUpvote   RelationKind = "upvote"
	RelationBookmark RelationKind = "bookmark"
)

// maxToggleAttempts bounds retries after an insert loses a race on the
// unique (project, user) index.
const maxToggleAttempts = 2

// relation describes one toggle relation: its table and the project counter
// it keeps, if any.
type relation[T any] struct {
	kind    RelationKind
	counter string
	repo    func(*store.Store) *store.Repository[T]
	id      func(*T) uint
	build   func(projectID, userID uint) *T
}

var upvoteRelation = relation[models.Upvote]{
	kind:    RelationUpvote,
	counter: models.CounterUpvotes,
	repo:    func(s *store.Store) *store.Repository[models.Upvote] { return s.Upvotes },
	id:      func(u *models.Upvote) uint { return u.ID },
	build: func(projectID, userID uint) *models.Upvote {
		return &models.Upvote{ProjectID: projectID, UserID: userID}
	},
}

var bookmarkRelation = relation[models.Bookmark]{
	kind: RelationBookmark,
	repo: func(s *store.Store) *store.Repository[models.Bookmark] { return s.Bookmarks },
	id:   func(b *models.Bookmark) uint { return b.ID },
	build: func(projectID, userID uint) *models.Bookmark {
		return &models.Bookmark{ProjectID: projectID, UserID: userID}
	},
}

type ToggleService struct {
	store *store.Store
}

func NewToggleService(st *store.Store) *ToggleService {
	return &ToggleService{store: st}
}

// Toggle flips the relation between userID and projectID and reports
// whether it now exists.
func (s *ToggleService) Toggle(ctx context.Context, kind RelationKind, userID, projectID uint) (bool, error) {
	switch kind {
	case RelationUpvote:
		return toggle(ctx, s.store, upvoteRelation, userID, projectID)
	case RelationBookmark:
		return toggle(ctx, s.store, bookmarkRelation, userID, projectID)
	}
	return false, response.NewValidation(fmt.Sprintf("unknown relation %q", kind))
}

// Status reports whether the relation currently exists.
func (s *ToggleService) Status(ctx context.Context, kind RelationKind, userID, projectID uint) (bool, error) {
	filter := store.Filter{"project_id": projectID, "user_id": userID}
	var (
		ok  bool
		err error
	)
	switch kind {
	case RelationUpvote:
		ok, err = s.store.Upvotes.Exists(ctx, filter)
	case RelationBookmark:
		ok, err = s.store.Bookmarks.Exists(ctx, filter)
	default:
		return false, response.NewValidation(fmt.Sprintf("unknown relation %q", kind))
	}
	if err != nil {
		return false, storeErr(err, "relation status", string(kind))
	}
	return ok, nil
}

// ListBookmarkedProjects returns the user's bookmarked projects, most
// recently bookmarked first. Bookmarks of deleted projects are skipped.
func (s *ToggleService) ListBookmarkedProjects(ctx context.Context, userID uint) ([]models.Project, error) {
	bookmarks, err := s.store.Bookmarks.Find(ctx, store.Filter{"user_id": userID},
		store.OrderBy("created_at DESC, id DESC"),
		store.Preload("Project"),
	)
	if err != nil {
		return nil, storeErr(err, "list bookmarks", "bookmark")
	}
	projects := make([]models.Project, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.Project != nil {
			projects = append(projects, *b.Project)
		}
	}
	return projects, nil
}

func toggle[T any](ctx context.Context, st *store.Store, rel relation[T], userID, projectID uint) (bool, error) {
	if projectID == 0 {
		return false, response.NewValidation("project id is required")
	}

	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		var created bool
		err := st.Transaction(ctx, func(tx *store.Store) error {
			var err error
			created, err = toggleOnce(ctx, tx, rel, userID, projectID)
			return err
		})
		if errors.Is(err, store.ErrConflict) {
			// someone else inserted the same pair between our read and write
			logger.Debug().
				Str("relation", string(rel.kind)).
				Uint("project_id", projectID).
				Uint("user_id", userID).
				Int("attempt", attempt).
				Msg("toggle insert lost a race")
			continue
		}
		if err != nil {
			return false, storeErr(err, "toggle "+string(rel.kind), "project")
		}
		return created, nil
	}
	return false, response.NewConflict(fmt.Sprintf("%s changed concurrently, please retry", rel.kind))
}

// toggleOnce is a single check-then-act pass. The counter only moves when
// this call actually inserted or deleted a row.
func toggleOnce[T any](ctx context.Context, tx *store.Store, rel relation[T], userID, projectID uint) (bool, error) {
	exists, err := tx.Projects.Exists(ctx, store.Filter{"id": projectID})
	if err != nil {
		return false, err
	}
	if !exists {
		return false, response.NewNotFound("project not found")
	}

	repo := rel.repo(tx)
	current, err := repo.FindOne(ctx, store.Filter{"project_id": projectID, "user_id": userID})
	switch {
	case err == nil:
		deleted, err := repo.DeleteOne(ctx, rel.id(current))
		if err != nil {
			return false, err
		}
		if deleted && rel.counter != "" {
			if _, err := tx.Projects.Increment(ctx, projectID, rel.counter, -1); err != nil {
				return false, err
			}
		}
		return false, nil

	case errors.Is(err, store.ErrNotFound):
		if err := repo.Insert(ctx, rel.build(projectID, userID)); err != nil {
			return false, err
		}
		if rel.counter != "" {
			if _, err := tx.Projects.Increment(ctx, projectID, rel.counter, 1); err != nil {
				return false, err
			}
		}
		return true, nil
	}
	return false, err
}
