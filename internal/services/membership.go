package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/logger"
	"github.com/campushive/backend/pkg/response"
)

// CreateProjectInput lists every field accepted when posting a project.
type CreateProjectInput struct {
	Title          string   `json:"title" binding:"required,max=200"`
	Description    string   `json:"description" binding:"required"`
	Tags           []string `json:"tags"`
	RequiredSkills []string `json:"required_skills" binding:"required,min=1"`
	Status         string   `json:"status" binding:"omitempty,oneof=Hiring 'In Progress' Completed Idea"`
}

// Validate trims the input, fills defaults and checks it.
func (in *CreateProjectInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = cleanList(in.Tags)
	in.RequiredSkills = cleanList(in.RequiredSkills)
	if in.Status == "" {
		in.Status = models.ProjectStatusHiring
	}
	return validate(in)
}

// AddMemberInput lists the fields accepted when adding a member.
type AddMemberInput struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,oneof=Owner Collaborator Viewer"`
}

func (in *AddMemberInput) Validate() error {
	if in.Role == "" {
		in.Role = models.MemberRoleCollaborator
	}
	if err := validate(in); err != nil {
		return err
	}
	if in.Role == models.MemberRoleOwner {
		return response.NewValidation("a project has exactly one owner")
	}
	return nil
}

// MembershipService owns project membership, the owner gate and
// member_count. User back-references, chat room membership and
// notifications are secondary writes: they are logged on failure and
// never fail the call.
type MembershipService struct {
	notifier
	store *store.Store
}

func NewMembershipService(st *store.Store, queue TaskQueue) *MembershipService {
	return &MembershipService{notifier: notifier{queue: queue}, store: st}
}

// CreateProjectWithOwner posts a project with its owner as the first member.
func (s *MembershipService) CreateProjectWithOwner(ctx context.Context, ownerID uint, in CreateProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:          in.Title,
		Description:    in.Description,
		Tags:           in.Tags,
		RequiredSkills: in.RequiredSkills,
		OwnerID:        ownerID,
		Status:         in.Status,
		MemberCount:    1,
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Projects.Insert(ctx, project); err != nil {
			return err
		}
		return tx.Members.Insert(ctx, &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.MemberRoleOwner,
		})
	})
	if err != nil {
		return nil, storeErr(err, "create project", "project")
	}

	if err := s.store.AddUserRef(ctx, ownerID, models.RefPostedProjects, project.ID); err != nil {
		logger.Secondary("create project", err).
			Uint("project_id", project.ID).
			Uint("user_id", ownerID).
			Msg("posted_projects not updated")
	}

	room := &models.ChatRoom{ProjectID: project.ID, Members: []uint{ownerID}}
	if err := s.store.ChatRooms.Insert(ctx, room); err != nil {
		logger.Secondary("create project", err).
			Uint("project_id", project.ID).
			Msg("chat room not created")
	}

	return project, nil
}

// AddMember adds in.UserID to the project. Only the owner may call it.
func (s *MembershipService) AddMember(ctx context.Context, actingUserID, projectID uint, in AddMemberInput) (*models.ProjectMember, error) {
	project, err := s.ownedProject(ctx, actingUserID, projectID, "add members")
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if ok, err := s.store.Users.Exists(ctx, store.Filter{"id": in.UserID}); err != nil {
		return nil, storeErr(err, "add member", "user")
	} else if !ok {
		return nil, response.NewNotFound("user not found")
	}

	memberFilter := store.Filter{"project_id": projectID, "user_id": in.UserID}
	if ok, err := s.store.Members.Exists(ctx, memberFilter); err != nil {
		return nil, storeErr(err, "add member", "membership")
	} else if ok {
		return nil, response.NewConflict("user is already a member of this project")
	}

	member := &models.ProjectMember{ProjectID: projectID, UserID: in.UserID, Role: in.Role}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Members.Insert(ctx, member); err != nil {
			return err
		}
		_, err := tx.Projects.Increment(ctx, projectID, models.CounterMembers, 1)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, response.NewConflict("user is already a member of this project")
		}
		return nil, storeErr(err, "add member", "membership")
	}

	if err := s.store.AddUserRef(ctx, in.UserID, models.RefJoinedTeams, projectID); err != nil {
		logger.Secondary("add member", err).
			Uint("project_id", projectID).
			Uint("user_id", in.UserID).
			Msg("joined_teams not updated")
	}
	if err := s.store.AddRoomMember(ctx, projectID, in.UserID); err != nil {
		logger.Secondary("add member", err).
			Uint("project_id", projectID).
			Uint("user_id", in.UserID).
			Msg("chat room membership not updated")
	}
	s.notify(ctx, "add member", &NotificationTask{
		UserID: in.UserID,
		Type:   models.NotificationTeamInvite,
		Data: map[string]interface{}{
			"project_id":    projectID,
			"project_title": project.Title,
			"role":          in.Role,
		},
		TargetLink: fmt.Sprintf("/projects/%d", projectID),
	})

	return member, nil
}

// RemoveMember removes targetUserID from the project. Only the owner may
// call it, and the owner's own membership cannot be removed.
func (s *MembershipService) RemoveMember(ctx context.Context, actingUserID, projectID, targetUserID uint) error {
	project, err := s.ownedProject(ctx, actingUserID, projectID, "remove members")
	if err != nil {
		return err
	}
	if targetUserID == 0 {
		return response.NewValidation("user id is required")
	}
	if targetUserID == project.OwnerID {
		return response.NewValidation("the owner cannot be removed from their project")
	}

	member, err := s.store.Members.FindOne(ctx, store.Filter{"project_id": projectID, "user_id": targetUserID})
	if err != nil {
		return storeErr(err, "remove member", "membership")
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		deleted, err := tx.Members.DeleteOne(ctx, member.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return store.ErrNotFound
		}
		_, err = tx.Projects.Increment(ctx, projectID, models.CounterMembers, -1)
		return err
	})
	if err != nil {
		return storeErr(err, "remove member", "membership")
	}

	if err := s.store.PullUserRef(ctx, targetUserID, models.RefJoinedTeams, projectID); err != nil {
		logger.Secondary("remove member", err).
			Uint("project_id", projectID).
			Uint("user_id", targetUserID).
			Msg("joined_teams not updated")
	}
	if err := s.store.PullRoomMember(ctx, projectID, targetUserID); err != nil {
		logger.Secondary("remove member", err).
			Uint("project_id", projectID).
			Uint("user_id", targetUserID).
			Msg("chat room membership not updated")
	}
	return nil
}

// DeleteProject removes the project row only. Memberships, comments,
// votes and back-references are left for the reconcile job.
func (s *MembershipService) DeleteProject(ctx context.Context, actingUserID, projectID uint) error {
	if _, err := s.ownedProject(ctx, actingUserID, projectID, "delete this project"); err != nil {
		return err
	}
	deleted, err := s.store.Projects.DeleteOne(ctx, projectID)
	if err != nil {
		return storeErr(err, "delete project", "project")
	}
	if !deleted {
		return response.NewNotFound("project not found")
	}
	return nil
}

// ListMembers returns the project's members with their display fields,
// in join order.
func (s *MembershipService) ListMembers(ctx context.Context, projectID uint) ([]models.ProjectMember, error) {
	if ok, err := s.store.Projects.Exists(ctx, store.Filter{"id": projectID}); err != nil {
		return nil, storeErr(err, "list members", "project")
	} else if !ok {
		return nil, response.NewNotFound("project not found")
	}

	members, err := s.store.Members.Find(ctx, store.Filter{"project_id": projectID},
		store.OrderBy("created_at ASC, id ASC"),
		store.Preload("User"),
	)
	if err != nil {
		return nil, storeErr(err, "list members", "membership")
	}
	return members, nil
}

// ownedProject loads the project and checks that actingUserID owns it.
func (s *MembershipService) ownedProject(ctx context.Context, actingUserID, projectID uint, action string) (*models.Project, error) {
	project, err := s.store.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, storeErr(err, action, "project")
	}
	if project.OwnerID != actingUserID {
		return nil, response.NewForbidden("only the project owner can " + action)
	}
	return project, nil
}
