package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/logger"
	"github.com/campushive/backend/pkg/response"
	"gorm.io/datatypes"
)

const notificationPageSize = 20

type NotificationService struct {
	store *store.Store
}

func NewNotificationService(st *store.Store) *NotificationService {
	return &NotificationService{store: st}
}

// List returns the user's 20 newest notifications, optionally only read
// or only unread ones.
func (s *NotificationService) List(ctx context.Context, userID uint, read *bool) ([]models.Notification, error) {
	filter := store.Filter{"user_id": userID}
	if read != nil {
		filter["is_read"] = *read
	}
	items, err := s.store.Notifications.Find(ctx, filter,
		store.OrderBy("created_at DESC, id DESC"),
		store.Limit(notificationPageSize),
	)
	if err != nil {
		return nil, storeErr(err, "list notifications", "notification")
	}
	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	n, err := s.store.Notifications.Count(ctx, store.Filter{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, storeErr(err, "count notifications", "notification")
	}
	return n, nil
}

// MarkRead flags one of the user's notifications as read. Notifications
// belonging to someone else are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	filter := store.Filter{"id": notificationID, "user_id": userID}
	ok, err := s.store.Notifications.Exists(ctx, filter)
	if err != nil {
		return storeErr(err, "mark notification read", "notification")
	}
	if !ok {
		return response.NewNotFound("notification not found")
	}
	if _, err := s.store.Notifications.UpdateFields(ctx, filter, map[string]interface{}{"is_read": true}); err != nil {
		return storeErr(err, "mark notification read", "notification")
	}
	return nil
}

// MarkAllRead flags every unread notification of the user. It returns how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	n, err := s.store.Notifications.UpdateFields(ctx,
		store.Filter{"user_id": userID, "is_read": false},
		map[string]interface{}{"is_read": true},
	)
	if err != nil {
		return 0, storeErr(err, "mark all notifications read", "notification")
	}
	return n, nil
}

// Deliver stores the notification described by task. It is the processor
// behind the notification TaskQueue.
func (s *NotificationService) Deliver(ctx context.Context, task *NotificationTask) error {
	task.Type = strings.TrimSpace(task.Type)
	task.TargetLink = strings.TrimSpace(task.TargetLink)
	if err := validate(task); err != nil {
		return err
	}

	n := &models.Notification{
		UserID:     task.UserID,
		Type:       task.Type,
		TargetLink: task.TargetLink,
	}
	if len(task.Data) > 0 {
		data, err := json.Marshal(task.Data)
		if err != nil {
			return err
		}
		n.Data = datatypes.JSON(data)
	}
	if err := s.store.Notifications.Insert(ctx, n); err != nil {
		return storeErr(err, "deliver notification", "notification")
	}
	return nil
}

// notifier is embedded by services that emit notifications as a
// side effect of their primary write.
type notifier struct {
	queue TaskQueue
}

// notify enqueues task; failure is logged and never returned.
func (n notifier) notify(ctx context.Context, op string, task *NotificationTask) {
	if n.queue == nil {
		return
	}
	if err := n.queue.Enqueue(ctx, task); err != nil {
		logger.Secondary(op, err).
			Uint("user_id", task.UserID).
			Str("type", task.Type).
			Msg("notification not delivered")
	}
}
