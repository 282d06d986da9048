package services

import (
	"context"
	"strings"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
	"gorm.io/datatypes"
)

type ProjectService struct {
	store *store.Store
}

func NewProjectService(st *store.Store) *ProjectService {
	return &ProjectService{store: st}
}

type ProjectListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Tag      string `form:"tag"`
	Skill    string `form:"skill"`
	Status   string `form:"status" binding:"omitempty,oneof=Hiring 'In Progress' Completed Idea"`
	Search   string `form:"search" binding:"max=200"`
	OwnerID  uint   `form:"owner_id"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

// List returns projects newest first, filtered by q.
func (s *ProjectService) List(ctx context.Context, q ProjectListQuery) (*ProjectListResponse, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	q.Page, q.PageSize = normalizePage(q.Page, q.PageSize)

	filter := store.Filter{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.OwnerID != 0 {
		filter["owner_id"] = q.OwnerID
	}

	var opts []store.QueryOption
	if tag := strings.TrimSpace(q.Tag); tag != "" {
		opts = append(opts, s.store.JSONContains("projects.tags", tag))
	}
	if skill := strings.TrimSpace(q.Skill); skill != "" {
		opts = append(opts, s.store.JSONContains("projects.required_skills", skill))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		p := likePattern(search)
		opts = append(opts, store.Where(`(title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!')`, p, p))
	}

	total, err := s.store.Projects.Count(ctx, filter, opts...)
	if err != nil {
		return nil, storeErr(err, "list projects", "project")
	}

	opts = append(opts,
		store.OrderBy("created_at DESC, id DESC"),
		store.Offset((q.Page-1)*q.PageSize),
		store.Limit(q.PageSize),
		store.Preload("Owner"),
	)
	items, err := s.store.Projects.Find(ctx, filter, opts...)
	if err != nil {
		return nil, storeErr(err, "list projects", "project")
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		Items:    items,
	}, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.store.Projects.Get(ctx, id, store.Preload("Owner"))
	if err != nil {
		return nil, storeErr(err, "get project", "project")
	}
	return project, nil
}

// UpdateProjectInput lists the fields an owner may change. Nil fields are
// left as they are; owner and counters are never writable.
type UpdateProjectInput struct {
	Title          *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string   `json:"description" binding:"omitempty,min=1"`
	Tags           *[]string `json:"tags"`
	RequiredSkills *[]string `json:"required_skills" binding:"omitempty,min=1"`
	Status         *string   `json:"status" binding:"omitempty,oneof=Hiring 'In Progress' Completed Idea"`
}

func (in *UpdateProjectInput) fields() (map[string]interface{}, error) {
	trimPtr(in.Title)
	trimPtr(in.Description)
	if in.Tags != nil {
		*in.Tags = cleanList(*in.Tags)
	}
	if in.RequiredSkills != nil {
		*in.RequiredSkills = cleanList(*in.RequiredSkills)
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](*in.Tags)
	}
	if in.RequiredSkills != nil {
		updates["required_skills"] = datatypes.JSONSlice[string](*in.RequiredSkills)
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if len(updates) == 0 {
		return nil, response.NewValidation("no fields to update")
	}
	return updates, nil
}

// Update applies in to the project. Only the owner may call it.
func (s *ProjectService) Update(ctx context.Context, actingUserID, id uint, in UpdateProjectInput) (*models.Project, error) {
	updates, err := in.fields()
	if err != nil {
		return nil, err
	}

	project, err := s.store.Projects.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "update project", "project")
	}
	if project.OwnerID != actingUserID {
		return nil, response.NewForbidden("only the project owner can update it")
	}

	if _, err := s.store.Projects.UpdateFields(ctx, store.Filter{"id": id}, updates); err != nil {
		return nil, storeErr(err, "update project", "project")
	}
	return s.GetByID(ctx, id)
}
