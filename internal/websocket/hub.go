package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/princekumarofficial/autohouse-service/internal/types"
)

// Hub keeps one connection per user and fans events out to them.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	// done is closed when Run returns.
	done chan struct{}

	mu sync.RWMutex
}

// BroadcastMessage targets UserIDs, or every connection subscribed to the
// event type when UserIDs is nil.
type BroadcastMessage struct {
	UserIDs []string     `json:"user_ids"`
	Event   *types.Event `json:"event"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done, closing every
// remaining connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			// A user reconnecting replaces the old connection
			if existing, exists := h.clients[client.userID]; exists {
				close(existing.send)
				slog.Info("Replaced existing WebSocket connection", slog.String("user_id", client.userID))
			}
			h.clients[client.userID] = client
			h.mu.Unlock()
			slog.Info("WebSocket client connected", slog.String("user_id", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
				slog.Info("WebSocket client disconnected", slog.String("user_id", client.userID))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// RegisterClient hands client to the hub. After Run has returned the client's
// send channel is closed instead, which stops its pumps.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// UnregisterClient is a no-op once Run has returned.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) enqueue(message *BroadcastMessage) {
	select {
	case h.broadcast <- message:
	default:
		slog.Warn("Broadcast channel is full, dropping message", slog.String("type", string(message.Event.Type)))
	}
}

func (h *Hub) BroadcastToUsers(userIDs []string, event *types.Event) {
	if len(userIDs) == 0 {
		return
	}
	h.enqueue(&BroadcastMessage{UserIDs: userIDs, Event: event})
}

func (h *Hub) BroadcastToUser(userID string, event *types.Event) {
	h.BroadcastToUsers([]string{userID}, event)
}

// BroadcastAll sends event to every connection subscribed to its type.
func (h *Hub) BroadcastAll(event *types.Event) {
	h.enqueue(&BroadcastMessage{Event: event})
}

func (h *Hub) deliver(message *BroadcastMessage) {
	h.mu.RLock()
	var targets []*Client
	if message.UserIDs == nil {
		targets = make([]*Client, 0, len(h.clients))
		for _, c := range h.clients {
			if c.Subscribed(message.Event.Type) {
				targets = append(targets, c)
			}
		}
	} else {
		for _, id := range message.UserIDs {
			if c, ok := h.clients[id]; ok {
				targets = append(targets, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.SendEvent(message.Event); err != nil {
			slog.Error("Failed to send event to client",
				slog.String("user_id", c.userID),
				slog.String("error", err.Error()))
			go h.UnregisterClient(c)
		}
	}
}

func (h *Hub) GetConnectedUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	return users
}

func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
