package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
)

// maxCommentLength matches the max tag on CreateCommentInput.Content.
const maxCommentLength = 5000

// CreateCommentInput lists the fields accepted when commenting. ParentID is
// not checked for existence.
type CreateCommentInput struct {
	Content  string `json:"content" binding:"required,max=5000"`
	ParentID *uint  `json:"parent_id"`
}

func (in *CreateCommentInput) Validate() error {
	in.Content = strings.TrimSpace(in.Content)
	if in.ParentID != nil && *in.ParentID == 0 {
		in.ParentID = nil
	}
	return validate(in)
}

// CommentService keeps comments and the project's comment_count.
type CommentService struct {
	notifier
	store *store.Store
}

func NewCommentService(st *store.Store, queue TaskQueue) *CommentService {
	return &CommentService{notifier: notifier{queue: queue}, store: st}
}

func (s *CommentService) Create(ctx context.Context, userID, projectID uint, in CreateCommentInput) (*models.Comment, error) {
	if projectID == 0 {
		return nil, response.NewValidation("project id is required")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	project, err := s.store.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, "create comment", "project")
	}

	comment := &models.Comment{
		ProjectID: projectID,
		UserID:    userID,
		ParentID:  in.ParentID,
		Content:   in.Content,
	}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Comments.Insert(ctx, comment); err != nil {
			return err
		}
		_, err := tx.Projects.Increment(ctx, projectID, models.CounterComments, 1)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "create comment", "comment")
	}

	if project.OwnerID != userID {
		s.notify(ctx, "create comment", &NotificationTask{
			UserID: project.OwnerID,
			Type:   models.NotificationNewComment,
			Data: map[string]interface{}{
				"project_id": projectID,
				"comment_id": comment.ID,
				"author_id":  userID,
			},
			TargetLink: fmt.Sprintf("/projects/%d#comment-%d", projectID, comment.ID),
		})
	}

	return comment, nil
}

// Delete removes one comment written by userID. Replies are kept.
func (s *CommentService) Delete(ctx context.Context, userID, commentID uint) error {
	comment, err := s.store.Comments.Get(ctx, commentID)
	if err != nil {
		return storeErr(err, "delete comment", "comment")
	}
	if comment.UserID != userID {
		return response.NewForbidden("you can only delete your own comments")
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		deleted, err := tx.Comments.DeleteOne(ctx, commentID)
		if err != nil {
			return err
		}
		if !deleted {
			return store.ErrNotFound
		}
		_, err = tx.Projects.Increment(ctx, comment.ProjectID, models.CounterComments, -1)
		return err
	})
	return storeErr(err, "delete comment", "comment")
}

// ListForProject returns the project's comments oldest first, with
// author display fields.
func (s *CommentService) ListForProject(ctx context.Context, projectID uint) ([]models.Comment, error) {
	comments, err := s.store.Comments.Find(ctx, store.Filter{"project_id": projectID},
		store.OrderBy("created_at ASC, id ASC"),
		store.Preload("Author"),
	)
	if err != nil {
		return nil, storeErr(err, "list comments", "comment")
	}
	return comments, nil
}

// Thread returns the comment followed by all of its descendants, level by
// level, each level oldest first.
func (s *CommentService) Thread(ctx context.Context, commentID uint) ([]models.Comment, error) {
	root, err := s.store.Comments.Get(ctx, commentID, store.Preload("Author"))
	if err != nil {
		return nil, storeErr(err, "comment thread", "comment")
	}

	thread := []models.Comment{*root}
	seen := map[uint]bool{root.ID: true}
	frontier := []uint{root.ID}
	for len(frontier) > 0 {
		replies, err := s.store.Comments.Find(ctx, nil,
			store.Where("parent_id IN ?", frontier),
			store.OrderBy("created_at ASC, id ASC"),
			store.Preload("Author"),
		)
		if err != nil {
			return nil, storeErr(err, "comment thread", "comment")
		}
		frontier = frontier[:0]
		for _, r := range replies {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			thread = append(thread, r)
			frontier = append(frontier, r.ID)
		}
	}
	return thread, nil
}
