package services

import (
	"context"
	"errors"
	"strings"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
	"gorm.io/datatypes"
)

// UpdateProfileInput holds the editable profile fields. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Name           *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Email          *string   `json:"email" binding:"omitempty,email"`
	College        *string   `json:"college"`
	CollegeBranch  *string   `json:"college_branch"`
	GraduationYear *int      `json:"graduation_year" binding:"omitempty,min=1900,max=2100"`
	Skills         *[]string `json:"skills"`
	Interests      *[]string `json:"interests"`
	GithubURL      *string   `json:"github_url" binding:"omitempty,url"`
	LinkedinURL    *string   `json:"linkedin_url" binding:"omitempty,url"`
	PortfolioURL   *string   `json:"portfolio_url" binding:"omitempty,url"`
	Bio            *string   `json:"bio" binding:"omitempty,max=1000"`
	AvatarURL      *string   `json:"avatar_url" binding:"omitempty,url"`
}

// fields validates the input and returns the column updates it implies.
func (in *UpdateProfileInput) fields() (map[string]interface{}, error) {
	for _, p := range []*string{in.Name, in.Email, in.College, in.CollegeBranch,
		in.GithubURL, in.LinkedinURL, in.PortfolioURL, in.Bio, in.AvatarURL} {
		trimPtr(p)
	}
	if in.Email != nil {
		*in.Email = strings.ToLower(*in.Email)
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	f := make(map[string]interface{})
	if in.GraduationYear != nil {
		f["graduation_year"] = *in.GraduationYear
	}
	if in.Skills != nil {
		f["skills"] = datatypes.JSONSlice[string](cleanList(*in.Skills))
	}
	if in.Interests != nil {
		f["interests"] = datatypes.JSONSlice[string](cleanList(*in.Interests))
	}
	for col, v := range map[string]*string{
		"name":           in.Name,
		"email":          in.Email,
		"college":        in.College,
		"college_branch": in.CollegeBranch,
		"github_url":     in.GithubURL,
		"linkedin_url":   in.LinkedinURL,
		"portfolio_url":  in.PortfolioURL,
		"bio":            in.Bio,
		"avatar_url":     in.AvatarURL,
	} {
		if v != nil {
			f[col] = *v
		}
	}
	return f, nil
}

type UserService struct {
	store *store.Store
}

func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get profile", "user")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if _, err := s.store.Users.UpdateFields(ctx, store.Filter{"id": userID}, fields); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return nil, response.NewConflict("email is already in use")
			}
			return nil, storeErr(err, "update profile", "user")
		}
	}
	return s.GetProfile(ctx, userID)
}
