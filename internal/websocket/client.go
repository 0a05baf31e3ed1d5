package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Message types on the realtime channel. Inbound and relayed frames share
// the same shape; the hub rewrites nothing but the exclusion of the sender.
const (
	MessageTypeJoin   = "join"
	MessageTypeEdit   = "edit"
	MessageTypeCursor = "cursor"
	MessageTypeError  = "error"
)

type InboundMessage struct {
	Type       string          `json:"type"`
	DocumentId string          `json:"document_id"`
	Delta      json.RawMessage `json:"delta,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// CursorData mirrors the original cursor-position payload.
type CursorData struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
	Position int    `json:"position"`
}

// Client is a middleman between one websocket connection and the hub. A user
// with several tabs holds several clients; each is tracked independently.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	UserID   uuid.UUID
	Username string

	// Buffered channel of outbound messages.
	Send chan []byte

	// mu guards closed and rooms. The hub evicts slow consumers from its own
	// goroutine while the connection goroutine may still be reading, so both
	// sides must agree on whether Send is still open.
	mu     sync.Mutex
	closed bool

	// rooms the connection has joined, for implicit leave on disconnect.
	rooms map[uuid.UUID]bool
}

func newClient(hub *Hub, conn *websocket.Conn, userId uuid.UUID, username string) *Client {
	return &Client{
		Hub:      hub,
		Conn:     conn,
		UserID:   userId,
		Username: username,
		Send:     make(chan []byte, 256),
		rooms:    make(map[uuid.UUID]bool),
	}
}

// trySend queues an outbound frame without blocking. delivered reports
// whether the frame was queued; alive distinguishes a full buffer on a live
// connection from a connection already closed, so callers evict only the
// former.
func (c *Client) trySend(data []byte) (delivered, alive bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, false
	}
	select {
	case c.Send <- data:
		return true, true
	default:
		return false, true
	}
}

// closeSend marks the connection closed and closes the outbound channel.
// Idempotent; once it returns no frame can be queued anymore.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// joinRoom records the membership, refusing connections that were closed in
// the meantime.
func (c *Client) joinRoom(documentId uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.rooms[documentId] = true
	return true
}

func (c *Client) leaveRoom(documentId uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, documentId)
}

func (c *Client) inRoom(documentId uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rooms[documentId]
}

func (c *Client) joinedRooms() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(c.rooms))
	for id := range c.rooms {
		ids = append(ids, id)
	}
	return ids
}

// readPump pumps messages from the websocket connection into the hub.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			break
		}
		c.handleMessage(raw)
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("malformed message")
		return
	}

	documentId, err := uuid.Parse(msg.DocumentId)
	if err != nil {
		c.sendError("invalid document id")
		return
	}

	switch msg.Type {
	case MessageTypeJoin:
		if err := c.Hub.Join(context.Background(), documentId, c); err != nil {
			c.sendError("access denied")
		}

	case MessageTypeEdit, MessageTypeCursor:
		// Only joined connections may broadcast; relay the frame untouched so
		// peers see exactly what the sender emitted.
		if !c.inRoom(documentId) {
			c.sendError("not joined")
			return
		}
		c.Hub.Relay(documentId, c, raw)

	default:
		c.sendError("unknown message type")
	}
}

func (c *Client) sendError(reason string) {
	frame, _ := json.Marshal(map[string]string{"type": MessageTypeError, "message": reason})
	c.trySend(frame)
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
