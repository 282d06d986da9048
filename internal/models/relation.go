package models

import "time"

// Upvote and Bookmark are toggle relations: the row's existence is the state.

type Upvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_upvote_project_user;not null" json:"project_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_upvote_project_user;index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Upvote) TableName() string { return "upvotes" }

type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_bookmark_project_user;not null" json:"project_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_bookmark_project_user;index;not null" json:"user_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Bookmark) TableName() string { return "bookmarks" }
