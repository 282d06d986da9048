package services

import (
	"sync"

	"github.com/campushive/backend/internal/models"
)

const (
	ChatEventMessage = "message"
	ChatEventDeleted = "deleted"

	chatClientBuffer = 100
)

// ChatEvent is pushed to stream subscribers of a room.
type ChatEvent struct {
	Type      string              `json:"type"`
	RoomID    uint                `json:"room_id"`
	MessageID uint                `json:"message_id"`
	Message   *models.ChatMessage `json:"message,omitempty"`
}

// ChatHub fans chat events out to SSE clients, grouped by room.
type ChatHub struct {
	rooms map[uint]map[string]chan ChatEvent
	mu    sync.RWMutex
}

func NewChatHub() *ChatHub {
	return &ChatHub{
		rooms: make(map[uint]map[string]chan ChatEvent),
	}
}

// Subscribe registers clientID on roomID and returns its event channel.
func (h *ChatHub) Subscribe(roomID uint, clientID string) <-chan ChatEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		clients = make(map[string]chan ChatEvent)
		h.rooms[roomID] = clients
	}
	ch := make(chan ChatEvent, chatClientBuffer)
	clients[clientID] = ch
	return ch
}

// Unsubscribe removes the client and closes its channel.
func (h *ChatHub) Unsubscribe(roomID uint, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if ch, ok := clients[clientID]; ok {
		close(ch)
		delete(clients, clientID)
	}
	if len(clients) == 0 {
		delete(h.rooms, roomID)
	}
}

// Publish sends event to every client of its room. Slow clients whose
// buffer is full miss the event.
func (h *ChatHub) Publish(event ChatEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.rooms[event.RoomID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of connected clients across all rooms.
func (h *ChatHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.rooms {
		n += len(clients)
	}
	return n
}
