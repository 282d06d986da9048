package models

import "time"

// Comment belongs to a project. ParentID links a reply to the comment it
// answers; replies outlive their parent.
type Comment struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ProjectID uint         `gorm:"index;not null" json:"project_id"`
	UserID    uint         `gorm:"index;not null" json:"user_id"`
	Author    *UserSummary `gorm:"foreignKey:UserID" json:"author,omitempty"`
	ParentID  *uint        `gorm:"index" json:"parent_id"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }
