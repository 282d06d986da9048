package models

import "time"

const (
	MemberRoleOwner        = "Owner"
	MemberRoleCollaborator = "Collaborator"
	MemberRoleViewer       = "Viewer"
)

// ProjectMember is a user's membership and role within a project.
// At most one row exists per (project, user).
type ProjectMember struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ProjectID uint         `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	UserID    uint         `gorm:"uniqueIndex:idx_project_user;index;not null" json:"user_id"`
	User      *UserSummary `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string       `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time    `json:"created_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
