package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventTypeInPerson = "in-person"
	EventTypeVirtual  = "virtual"
	EventTypeHybrid   = "hybrid"
)

type EventScheduleItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

type EventPrize struct {
	Position string `json:"position"`
	Reward   string `json:"reward"`
}

type EventSpeaker struct {
	Name     string `json:"name"`
	Bio      string `json:"bio,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type Event struct {
	ID          uint                                   `gorm:"primaryKey" json:"id"`
	Title       string                                 `gorm:"size:200;not null" json:"title"`
	Description string                                 `gorm:"type:text;not null" json:"description"`
	URL         string                                 `gorm:"size:500" json:"url"`
	ImageURL    string                                 `gorm:"size:500" json:"image_url"`
	Domain      string                                 `gorm:"size:100;index" json:"domain"`
	EventType   string                                 `gorm:"size:20;not null" json:"event_type"`
	Location    string                                 `gorm:"size:300" json:"location"`
	VirtualLink string                                 `gorm:"size:500" json:"virtual_link"`
	StartAt     time.Time                              `gorm:"index;not null" json:"start_at"`
	EndAt       time.Time                              `gorm:"not null" json:"end_at"`
	Tags        datatypes.JSONSlice[string]            `json:"tags"`
	Schedule    datatypes.JSONSlice[EventScheduleItem] `json:"schedule"`
	Prizes      datatypes.JSONSlice[EventPrize]        `json:"prizes"`
	Speakers    datatypes.JSONSlice[EventSpeaker]      `json:"speakers"`
	CreatedBy   uint                                   `gorm:"index;not null" json:"created_by"`
	CreatedAt   time.Time                              `json:"created_at"`
	UpdatedAt   time.Time                              `json:"updated_at"`
}

func (Event) TableName() string { return "events" }
