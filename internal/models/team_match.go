package models

import "time"

// TeamMatch is a precomputed recommendation written by the offline matcher.
type TeamMatch struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	UserID            uint         `gorm:"index;not null" json:"user_id"`
	RecommendedUserID uint         `gorm:"index;not null" json:"recommended_user_id"`
	RecommendedUser   *UserSummary `gorm:"foreignKey:RecommendedUserID" json:"recommended_user,omitempty"`
	ProjectID         uint         `gorm:"index;not null" json:"project_id"`
	Score             float64      `gorm:"index;not null" json:"score"`
	Reasoning         string       `gorm:"type:text" json:"reasoning"`
	CreatedAt         time.Time    `json:"created_at"`
}

func (TeamMatch) TableName() string { return "team_matches" }
