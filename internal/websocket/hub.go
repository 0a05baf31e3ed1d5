package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Srushti-17/Docolab/internal/access"
	"github.com/Srushti-17/Docolab/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "docolab_room_events"

// ErrConnectionClosed is returned by Join when the connection was already
// torn down, for example after a slow-consumer eviction.
var ErrConnectionClosed = errors.New("connection closed")

// RoomAuthorizer gates room membership. Join performs the same read check as
// the document fetch path instead of trusting that only authorized clients
// ever attempt it.
type RoomAuthorizer interface {
	CanRead(ctx context.Context, principal *access.Principal, documentId uuid.UUID) error
}

// Hub tracks per-document rooms and the user index used for direct
// notifications. The hub-level lock only guards the maps; message fan-out
// runs under each room's own lock.
type Hub struct {
	// rooms: document id -> broadcast channel. Created on first join,
	// garbage-collected when the member set empties.
	rooms map[uuid.UUID]*Room

	// userClients: user id -> connections (multi-tab).
	userClients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	authorizer RoomAuthorizer

	// Redis connection for cross-instance fan-out. Nil disables clustering;
	// local delivery never depends on it.
	rdb *redis.Client

	// instanceId filters out our own redis publications.
	instanceId string

	logger logger.ILogger
}

func NewHub(authorizer RoomAuthorizer, rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		rooms:       make(map[uuid.UUID]*Room),
		userClients: make(map[uuid.UUID][]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		authorizer:  authorizer,
		rdb:         rdb,
		instanceId:  uuid.NewString(),
		logger:      log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.dropClient(client)
		}
	}
}

func (h *Hub) dropClient(client *Client) {
	// Close first: once the closed flag is set no join can re-admit the
	// connection and no relay can touch the closed channel.
	client.closeSend()

	// Implicit leave of every joined room, no cleanup call required from the
	// connection side.
	for _, documentId := range client.joinedRooms() {
		h.Leave(documentId, client)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.userClients[client.UserID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.userClients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

// Join admits the client to the document's room after re-authorizing read
// access through the gate. Idempotent if already joined; a connection closed
// by eviction or disconnect is refused.
func (h *Hub) Join(ctx context.Context, documentId uuid.UUID, client *Client) error {
	if h.authorizer != nil {
		principal := &access.Principal{UserID: client.UserID}
		if err := h.authorizer.CanRead(ctx, principal, documentId); err != nil {
			h.logger.Warn("Hub", "Join rejected", map[string]interface{}{
				"user_id":     client.UserID,
				"document_id": documentId,
			})
			return err
		}
	}

	h.mu.Lock()
	room, ok := h.rooms[documentId]
	if !ok {
		room = newRoom(documentId)
		h.rooms[documentId] = room
	}
	h.mu.Unlock()

	room.add(client)
	// The membership record is taken after the room add so a concurrent
	// dropClient either sees the room in its leave sweep or forces the
	// rollback below; a closed client never stays in the member set.
	if !client.joinRoom(documentId) {
		if room.remove(client) {
			h.mu.Lock()
			if room.size() == 0 {
				delete(h.rooms, documentId)
			}
			h.mu.Unlock()
		}
		return ErrConnectionClosed
	}

	h.logger.Info("Hub", "Client joined document", map[string]interface{}{
		"user_id":     client.UserID,
		"document_id": documentId,
	})
	return nil
}

// Leave removes the client from the room and garbage-collects the room when
// its member set becomes empty.
func (h *Hub) Leave(documentId uuid.UUID, client *Client) {
	h.mu.RLock()
	room, ok := h.rooms[documentId]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if room.remove(client) {
		h.mu.Lock()
		// Re-check under the write lock: someone may have joined between the
		// remove and here.
		if room.size() == 0 {
			delete(h.rooms, documentId)
		}
		h.mu.Unlock()
	}
	client.leaveRoom(documentId)
}

// Relay fans a frame out to every other member of the document's room.
// Zero-peer rooms are a silent no-op. Best effort: no acks, no delivery
// guarantee, per-sender ordering only via the connection's write pump.
func (h *Hub) Relay(documentId uuid.UUID, sender *Client, data []byte) {
	h.mu.RLock()
	room, ok := h.rooms[documentId]
	h.mu.RUnlock()

	if ok {
		for _, stalled := range room.broadcast(sender, data) {
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": stalled.UserID})
			h.unregister <- stalled
		}
	}

	h.publish(clusterPayload{
		InstanceId: h.instanceId,
		DocumentId: documentId.String(),
		Message:    data,
	})
}

// SendToUser delivers a frame to every connection of one user. Used by the
// share-notification consumer, not by the room relay path.
func (h *Hub) SendToUser(userId uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := make([]*Client, len(h.userClients[userId]))
	copy(clients, h.userClients[userId])
	h.mu.RUnlock()

	for _, client := range clients {
		if delivered, alive := client.trySend(data); !delivered && alive {
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userId})
			h.unregister <- client
		}
	}

	h.publish(clusterPayload{
		InstanceId:   h.instanceId,
		TargetUserId: userId.String(),
		Message:      data,
	})
}

// RoomSize reports the current member count of a document's room.
func (h *Hub) RoomSize(documentId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[documentId]; ok {
		return room.size()
	}
	return 0
}

type clusterPayload struct {
	InstanceId   string          `json:"instance_id"`
	DocumentId   string          `json:"document_id,omitempty"`
	TargetUserId string          `json:"target_user_id,omitempty"`
	Message      json.RawMessage `json:"message"`
}

func (h *Hub) publish(payload clusterPayload) {
	if h.rdb == nil {
		return
	}
	jsonPayload, _ := json.Marshal(payload)
	h.rdb.Publish(context.Background(), clusterChannel, jsonPayload)
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterPayload
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Error("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.InstanceId == h.instanceId {
			continue
		}

		if payload.DocumentId != "" {
			documentId, err := uuid.Parse(payload.DocumentId)
			if err != nil {
				continue
			}
			h.mu.RLock()
			room, ok := h.rooms[documentId]
			h.mu.RUnlock()
			if ok {
				// The sender lives on another instance, so every local member
				// is a peer.
				for _, stalled := range room.broadcast(nil, payload.Message) {
					h.unregister <- stalled
				}
			}
			continue
		}

		userId, err := uuid.Parse(payload.TargetUserId)
		if err != nil {
			continue
		}
		h.mu.RLock()
		clients := make([]*Client, len(h.userClients[userId]))
		copy(clients, h.userClients[userId])
		h.mu.RUnlock()
		for _, client := range clients {
			if delivered, alive := client.trySend(payload.Message); !delivered && alive {
				h.unregister <- client
			}
		}
	}
}
