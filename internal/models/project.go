package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ProjectStatusHiring     = "Hiring"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusCompleted  = "Completed"
	ProjectStatusIdea       = "Idea"
)

// ValidProjectStatus reports whether s is one of the project status values.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusHiring, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusIdea:
		return true
	}
	return false
}

// Project is a recruiting post. The three counters are denormalized
// aggregates of project_members, comments and upvotes and never go negative.
type Project struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	Title          string                      `gorm:"size:200;not null" json:"title"`
	Description    string                      `gorm:"type:text;not null" json:"description"`
	Tags           datatypes.JSONSlice[string] `json:"tags"`
	RequiredSkills datatypes.JSONSlice[string] `json:"required_skills"`
	OwnerID        uint                        `gorm:"index;not null" json:"owner_id"`
	Owner          *UserSummary                `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Status         string                      `gorm:"size:20;not null;index" json:"status"`
	MemberCount    int                         `gorm:"not null;default:0" json:"member_count"`
	CommentCount   int                         `gorm:"not null;default:0" json:"comment_count"`
	UpvoteCount    int                         `gorm:"not null;default:0" json:"upvote_count"`
	CreatedAt      time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// Counter columns on projects.
const (
	CounterMembers  = "member_count"
	CounterComments = "comment_count"
	CounterUpvotes  = "upvote_count"
)
