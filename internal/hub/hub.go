package hub

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is a single subscriber connection. The SSE handler drains Send
// until it is closed.
type Client struct {
	ID   string
	Send chan []byte
}

// NewClient creates a client with a buffered send channel.
func NewClient() *Client {
	return &Client{
		ID:   uuid.NewString(),
		Send: make(chan []byte, 16),
	}
}

// Hub manages rooms of subscribers. Rooms are keyed by string so user and
// group rooms share one registry.
type Hub struct {
	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

// UserRoom returns the personal room key for a user.
func UserRoom(userID uint) string { return fmt.Sprintf("user:%d", userID) }

// GroupRoom returns the room key for a group.
func GroupRoom(groupID uint) string { return fmt.Sprintf("group:%d", groupID) }

// Subscribe adds a client to a room.
func (h *Hub) Subscribe(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
}

// Unsubscribe removes a client from a room. The client's channel is not
// closed here; a client may be in several rooms.
func (h *Hub) Unsubscribe(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast sends an event to every client in a room. Delivery is
// fire-and-forget: a slow or gone client never blocks the hub, and missed
// events are not queued or retried.
func (h *Hub) Broadcast(room string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		return
	}

	for client := range clients {
		select {
		case client.Send <- messageBytes:
		default:
		}
	}
}

// RoomSize reports the number of clients currently in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
