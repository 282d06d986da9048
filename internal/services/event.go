package services

import (
	"context"
	"strings"
	"time"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
)

// EventInput lists every field accepted when creating or replacing an event.
type EventInput struct {
	Title       string                     `json:"title" binding:"required,max=200"`
	Description string                     `json:"description" binding:"required"`
	URL         string                     `json:"url" binding:"omitempty,url"`
	ImageURL    string                     `json:"image_url" binding:"omitempty,url"`
	Domain      string                     `json:"domain"`
	EventType   string                     `json:"event_type" binding:"required,oneof=in-person virtual hybrid"`
	Location    string                     `json:"location"`
	VirtualLink string                     `json:"virtual_link" binding:"omitempty,url"`
	StartAt     time.Time                  `json:"start_at" binding:"required"`
	EndAt       time.Time                  `json:"end_at" binding:"required,gtefield=StartAt"`
	Tags        []string                   `json:"tags"`
	Schedule    []models.EventScheduleItem `json:"schedule"`
	Prizes      []models.EventPrize        `json:"prizes"`
	Speakers    []models.EventSpeaker      `json:"speakers"`
}

func (in *EventInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Domain = strings.TrimSpace(in.Domain)
	in.Tags = cleanList(in.Tags)
	if err := validate(in); err != nil {
		return err
	}
	if in.EventType != models.EventTypeVirtual && in.Location == "" {
		return response.NewValidation("location is required for " + in.EventType + " events")
	}
	return nil
}

func (in *EventInput) apply(e *models.Event) {
	e.Title = in.Title
	e.Description = in.Description
	e.URL = in.URL
	e.ImageURL = in.ImageURL
	e.Domain = in.Domain
	e.EventType = in.EventType
	e.Location = in.Location
	e.VirtualLink = in.VirtualLink
	e.StartAt = in.StartAt
	e.EndAt = in.EndAt
	e.Tags = in.Tags
	e.Schedule = in.Schedule
	e.Prizes = in.Prizes
	e.Speakers = in.Speakers
}

type EventListQuery struct {
	Domain    string `form:"domain"`
	EventType string `form:"event_type" binding:"omitempty,oneof=in-person virtual hybrid"`
	Upcoming  bool   `form:"upcoming"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type EventListResponse struct {
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []models.Event `json:"items"`
}

type EventService struct {
	store *store.Store
	now   func() time.Time
}

func NewEventService(st *store.Store) *EventService {
	return &EventService{store: st, now: time.Now}
}

func (s *EventService) Create(ctx context.Context, userID uint, in EventInput) (*models.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	event := &models.Event{CreatedBy: userID}
	in.apply(event)
	if err := s.store.Events.Insert(ctx, event); err != nil {
		return nil, storeErr(err, "create event", "event")
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.store.Events.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get event", "event")
	}
	return event, nil
}

// List returns events ordered by start time. Upcoming keeps only events
// that have not ended yet.
func (s *EventService) List(ctx context.Context, q EventListQuery) (*EventListResponse, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	page, pageSize := normalizePage(q.Page, q.PageSize)

	filter := store.Filter{}
	if q.Domain != "" {
		filter["domain"] = q.Domain
	}
	if q.EventType != "" {
		filter["event_type"] = q.EventType
	}
	var opts []store.QueryOption
	if q.Upcoming {
		opts = append(opts, store.Where("end_at >= ?", s.now()))
	}

	total, err := s.store.Events.Count(ctx, filter, opts...)
	if err != nil {
		return nil, storeErr(err, "list events", "event")
	}
	items, err := s.store.Events.Find(ctx, filter, append(opts,
		store.OrderBy("start_at ASC, id ASC"),
		store.Offset((page-1)*pageSize),
		store.Limit(pageSize),
	)...)
	if err != nil {
		return nil, storeErr(err, "list events", "event")
	}

	return &EventListResponse{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

// Update replaces the event's fields. Only its creator may call it.
func (s *EventService) Update(ctx context.Context, userID, id uint, in EventInput) (*models.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	event, err := s.createdEvent(ctx, userID, id, "update")
	if err != nil {
		return nil, err
	}
	in.apply(event)
	if err := s.store.DB().WithContext(ctx).Save(event).Error; err != nil {
		return nil, storeErr(store.Translate(err), "update event", "event")
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.createdEvent(ctx, userID, id, "delete"); err != nil {
		return err
	}
	if _, err := s.store.Events.DeleteOne(ctx, id); err != nil {
		return storeErr(err, "delete event", "event")
	}
	return nil
}

func (s *EventService) createdEvent(ctx context.Context, userID, id uint, action string) (*models.Event, error) {
	event, err := s.store.Events.Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, action+" event", "event")
	}
	if event.CreatedBy != userID {
		return nil, response.NewForbidden("only the event creator can " + action + " it")
	}
	return event, nil
}
