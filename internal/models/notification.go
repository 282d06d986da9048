package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationTeamInvite = "team_invite"
	NotificationNewComment = "new_comment"
	NotificationNewMessage = "new_message"
)

type Notification struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"index:idx_notification_user_read;not null" json:"user_id"`
	Type       string         `gorm:"size:50;not null" json:"type"`
	Data       datatypes.JSON `json:"data"`
	IsRead     bool           `gorm:"index:idx_notification_user_read;not null;default:false" json:"read"`
	TargetLink string         `gorm:"size:500;not null" json:"target_link"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
