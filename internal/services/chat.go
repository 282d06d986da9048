package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// PostMessageInput lists the fields accepted when sending a message.
type PostMessageInput struct {
	Content string `json:"content" binding:"required,max=4000"`
	FileURL string `json:"file_url" binding:"omitempty,url"`
}

func (in *PostMessageInput) Validate() error {
	in.Content = strings.TrimSpace(in.Content)
	in.FileURL = strings.TrimSpace(in.FileURL)
	return validate(in)
}

// ChatService serves project chat rooms. Only users listed in a room may
// read or post to it.
type ChatService struct {
	notifier
	store *store.Store
	hub   *ChatHub
	now   func() time.Time
}

func NewChatService(st *store.Store, hub *ChatHub, queue TaskQueue) *ChatService {
	return &ChatService{notifier: notifier{queue: queue}, store: st, hub: hub, now: time.Now}
}

// GetRoomForProject returns the project's room if userID is a member.
func (s *ChatService) GetRoomForProject(ctx context.Context, userID, projectID uint) (*models.ChatRoom, error) {
	room, err := s.store.ChatRooms.FindOne(ctx, store.Filter{"project_id": projectID})
	if err != nil {
		return nil, storeErr(err, "get chat room", "chat room")
	}
	if !room.HasMember(userID) {
		return nil, response.NewForbidden("you are not a member of this chat room")
	}
	return room, nil
}

// Authorize returns the room if userID may use it.
func (s *ChatService) Authorize(ctx context.Context, userID, roomID uint) (*models.ChatRoom, error) {
	room, err := s.store.ChatRooms.Get(ctx, roomID)
	if err != nil {
		return nil, storeErr(err, "get chat room", "chat room")
	}
	if !room.HasMember(userID) {
		return nil, response.NewForbidden("you are not a member of this chat room")
	}
	return room, nil
}

func (s *ChatService) PostMessage(ctx context.Context, userID, roomID uint, in PostMessageInput) (*models.ChatMessage, error) {
	if roomID == 0 {
		return nil, response.NewValidation("room id is required")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	room, err := s.Authorize(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		RoomID:   roomID,
		SenderID: userID,
		Content:  in.Content,
		FileURL:  in.FileURL,
		SentAt:   s.now(),
	}
	if err := s.store.ChatMessages.Insert(ctx, msg); err != nil {
		return nil, storeErr(err, "post message", "message")
	}

	if s.hub != nil {
		s.hub.Publish(ChatEvent{Type: ChatEventMessage, RoomID: roomID, MessageID: msg.ID, Message: msg})
	}
	for _, member := range room.Members {
		if member == userID {
			continue
		}
		s.notify(ctx, "post message", &NotificationTask{
			UserID: member,
			Type:   models.NotificationNewMessage,
			Data: map[string]interface{}{
				"room_id":    roomID,
				"project_id": room.ProjectID,
				"message_id": msg.ID,
				"sender_id":  userID,
			},
			TargetLink: fmt.Sprintf("/projects/%d/chat", room.ProjectID),
		})
	}
	return msg, nil
}

// History returns up to limit messages before the newest skip ones, in
// the order they were sent.
func (s *ChatService) History(ctx context.Context, userID, roomID uint, limit, skip int) ([]models.ChatMessage, error) {
	if _, err := s.Authorize(ctx, userID, roomID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if skip < 0 {
		skip = 0
	}

	msgs, err := s.store.ChatMessages.Find(ctx, store.Filter{"room_id": roomID},
		store.OrderBy("sent_at DESC, id DESC"),
		store.Offset(skip),
		store.Limit(limit),
		store.Preload("Sender"),
	)
	if err != nil {
		return nil, storeErr(err, "chat history", "message")
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// DeleteMessage removes a message. Only its sender may delete it.
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID uint) error {
	msg, err := s.store.ChatMessages.Get(ctx, messageID)
	if err != nil {
		return storeErr(err, "delete message", "message")
	}
	if msg.SenderID != userID {
		return response.NewForbidden("you can only delete your own messages")
	}
	if _, err := s.store.ChatMessages.DeleteOne(ctx, messageID); err != nil {
		return storeErr(err, "delete message", "message")
	}

	if s.hub != nil {
		s.hub.Publish(ChatEvent{Type: ChatEventDeleted, RoomID: msg.RoomID, MessageID: messageID})
	}
	return nil
}
