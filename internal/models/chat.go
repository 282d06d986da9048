package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChatRoom is the single room attached to a project.
type ChatRoom struct {
	ID        uint                      `gorm:"primaryKey" json:"id"`
	ProjectID uint                      `gorm:"uniqueIndex;not null" json:"project_id"`
	Members   datatypes.JSONSlice[uint] `json:"members"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

func (ChatRoom) TableName() string { return "chat_rooms" }

// HasMember reports whether userID is listed in the room.
func (r *ChatRoom) HasMember(userID uint) bool {
	for _, id := range r.Members {
		if id == userID {
			return true
		}
	}
	return false
}

type ChatMessage struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	RoomID    uint         `gorm:"index:idx_room_sent;not null" json:"room_id"`
	SenderID  uint         `gorm:"index;not null" json:"sender_id"`
	Sender    *UserSummary `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	FileURL   string       `gorm:"size:500" json:"file_url,omitempty"`
	SentAt    time.Time    `gorm:"index:idx_room_sent;not null" json:"sent_at"`
	CreatedAt time.Time    `json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
