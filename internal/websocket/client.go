package websocket

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/autohouse-service/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

var ErrSendBufferFull = errors.New("websocket send buffer full")

// Client is one user's notification connection. Direct events for the user
// are always delivered; broadcast events only for subscribed topics.
type Client struct {
	conn   *websocket.Conn
	send   chan *types.Event
	userID string
	hub    *Hub

	mu     sync.RWMutex
	topics map[types.EventType]struct{}
}

// NewClient creates a client subscribed to topics. Topics that are not public
// events are ignored.
func NewClient(conn *websocket.Conn, userID string, hub *Hub, topics ...types.EventType) *Client {
	c := &Client{
		conn:   conn,
		send:   make(chan *types.Event, sendBuffer),
		userID: userID,
		hub:    hub,
		topics: make(map[types.EventType]struct{}),
	}
	c.Subscribe(topics...)
	return c
}

func (c *Client) Subscribe(topics ...types.EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		if types.IsPublicEvent(t) {
			c.topics[t] = struct{}{}
		}
	}
}

func (c *Client) Unsubscribe(topics ...types.EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		delete(c.topics, t)
	}
}

func (c *Client) Subscribed(t types.EventType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.topics[t]
	return ok
}

// handle applies a subscription message from the peer.
func (c *Client) handle(msg types.SubscriptionMessage) {
	switch msg.Action {
	case types.ActionSubscribe:
		c.Subscribe(msg.Events...)
	case types.ActionUnsubscribe:
		c.Unsubscribe(msg.Events...)
	default:
		slog.Debug("Ignoring websocket message", slog.String("user_id", c.userID), slog.String("action", msg.Action))
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg types.SubscriptionMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", slog.String("user_id", c.userID), slog.String("error", err.Error()))
			}
			return
		}
		c.handle(msg)
	}
}

// writePump writes one JSON frame per event and keeps the connection alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues event without blocking. The hub owns the send channel and
// closes it on unregister.
func (c *Client) SendEvent(event *types.Event) error {
	select {
	case c.send <- event:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) UserID() string {
	return c.userID
}
