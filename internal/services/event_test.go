package services

import (
	"context"
	"testing"
	"time"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/pkg/response"
)

func eventInput(start time.Time, eventType string) EventInput {
	return EventInput{
		Title:       "Hack Night",
		Description: "Build something in 12 hours",
		Domain:      "web",
		EventType:   eventType,
		Location:    "Library hall",
		StartAt:     start,
		EndAt:       start.Add(12 * time.Hour),
		Prizes:      []models.EventPrize{{Position: "1st", Reward: "laptop"}},
	}
}

func TestEventInput_Validate(t *testing.T) {
	start := time.Now()
	tests := []struct {
		name   string
		mutate func(*EventInput)
	}{
		{"no title", func(in *EventInput) { in.Title = "" }},
		{"bad type", func(in *EventInput) { in.EventType = "party" }},
		{"end before start", func(in *EventInput) { in.EndAt = in.StartAt.Add(-time.Hour) }},
		{"in-person without location", func(in *EventInput) { in.Location = "" }},
		{"missing dates", func(in *EventInput) { in.StartAt = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := eventInput(start, models.EventTypeInPerson)
			tt.mutate(&in)
			assertKind(t, in.Validate(), response.KindValidation)
		})
	}

	in := eventInput(start, models.EventTypeVirtual)
	in.Location = ""
	if err := in.Validate(); err != nil {
		t.Errorf("virtual events need no location: %v", err)
	}
}

func TestEventService(t *testing.T) {
	st := newTestStore(t, true)
	ctx := context.Background()
	svc := NewEventService(st)
	creator := seedUser(t, st, "creator")
	other := seedUser(t, st, "other")

	now := time.Now()
	svc.now = func() time.Time { return now }

	past, err := svc.Create(ctx, creator.ID, eventInput(now.Add(-72*time.Hour), models.EventTypeInPerson))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	later, err := svc.Create(ctx, creator.ID, eventInput(now.Add(48*time.Hour), models.EventTypeHybrid))
	if err != nil {
		t.Fatal(err)
	}
	soon, err := svc.Create(ctx, creator.ID, eventInput(now.Add(24*time.Hour), models.EventTypeInPerson))
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx, past.ID)
	if err != nil || len(got.Prizes) != 1 || got.Prizes[0].Reward != "laptop" {
		t.Errorf("Get = %+v, %v", got, err)
	}

	list, err := svc.List(ctx, EventListQuery{Upcoming: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Total != 2 || list.Items[0].ID != soon.ID || list.Items[1].ID != later.ID {
		t.Errorf("upcoming should be soon then later, got %+v", list.Items)
	}

	list, err = svc.List(ctx, EventListQuery{EventType: models.EventTypeHybrid})
	if err != nil || list.Total != 1 || list.Items[0].ID != later.ID {
		t.Errorf("event_type filter = %+v, %v", list, err)
	}

	update := eventInput(later.StartAt, models.EventTypeVirtual)
	update.Title = "Remote Hack Night"
	_, err = svc.Update(ctx, other.ID, later.ID, update)
	assertKind(t, err, response.KindForbidden)
	updated, err := svc.Update(ctx, creator.ID, later.ID, update)
	if err != nil || updated.Title != "Remote Hack Night" || updated.CreatedBy != creator.ID {
		t.Errorf("Update = %+v, %v", updated, err)
	}

	assertKind(t, svc.Delete(ctx, other.ID, soon.ID), response.KindForbidden)
	if err := svc.Delete(ctx, creator.ID, soon.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = svc.Get(ctx, soon.ID)
	assertKind(t, err, response.KindNotFound)
}
