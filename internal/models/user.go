package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	UserRoleUser      = "USER"
	UserRoleModerator = "MODERATOR"
	UserRoleAdmin     = "ADMIN"

	UserStatusActive    = "Active"
	UserStatusInactive  = "Inactive"
	UserStatusSuspended = "Suspended"
)

// User is a platform member. PostedProjects and JoinedTeams are
// denormalized back-references kept in step with ProjectMember rows on a
// best-effort basis and repaired by the reconcile job.
type User struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	Name           string                      `gorm:"size:100;not null" json:"name"`
	Email          string                      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password       string                      `gorm:"size:255;not null" json:"-"`
	College        string                      `gorm:"size:200" json:"college"`
	CollegeBranch  string                      `gorm:"size:200" json:"college_branch"`
	GraduationYear int                         `json:"graduation_year"`
	Skills         datatypes.JSONSlice[string] `json:"skills"`
	Interests      datatypes.JSONSlice[string] `json:"interests"`
	GithubURL      string                      `gorm:"size:500" json:"github_url"`
	LinkedinURL    string                      `gorm:"size:500" json:"linkedin_url"`
	PortfolioURL   string                      `gorm:"size:500" json:"portfolio_url"`
	Bio            string                      `gorm:"type:text" json:"bio"`
	AvatarURL      string                      `gorm:"size:500" json:"avatar_url"`
	PostedProjects datatypes.JSONSlice[uint]   `json:"posted_projects"`
	JoinedTeams    datatypes.JSONSlice[uint]   `json:"joined_teams"`
	Role           string                      `gorm:"size:20;not null" json:"role"`
	Status         string                      `gorm:"size:20;not null" json:"status"`
	LastLoginAt    *time.Time                  `json:"last_login_at"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary is the display subset embedded in comments, members and matches.
type UserSummary struct {
	ID            uint                        `json:"id"`
	Name          string                      `json:"name"`
	AvatarURL     string                      `json:"avatar_url"`
	CollegeBranch string                      `json:"college_branch,omitempty"`
	Skills        datatypes.JSONSlice[string] `json:"skills,omitempty"`
}

func (UserSummary) TableName() string { return "users" }

// Back-reference columns on users.
const (
	RefPostedProjects = "posted_projects"
	RefJoinedTeams    = "joined_teams"
)
