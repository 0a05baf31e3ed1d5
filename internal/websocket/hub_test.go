package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Srushti-17/Docolab/internal/access"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type allowAll struct{}

func (allowAll) CanRead(context.Context, *access.Principal, uuid.UUID) error { return nil }

type denyAll struct{}

func (denyAll) CanRead(context.Context, *access.Principal, uuid.UUID) error {
	return access.ErrForbidden
}

func newTestClient(hub *Hub) *Client {
	return newClient(hub, nil, uuid.New(), "tester")
}

func recvFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case frame := <-c.Send:
		return frame
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return nil
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case frame := <-c.Send:
		t.Fatalf("expected no frame, got %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestJoinIsAuthorized(t *testing.T) {
	hub := NewHub(denyAll{}, nil, nopLogger{})
	client := newTestClient(hub)

	err := hub.Join(context.Background(), uuid.New(), client)
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.Equal(t, 0, hub.RoomSize(uuid.New()))
}

func TestJoinIdempotent(t *testing.T) {
	hub := NewHub(allowAll{}, nil, nopLogger{})
	client := newTestClient(hub)
	documentId := uuid.New()

	require.NoError(t, hub.Join(context.Background(), documentId, client))
	require.NoError(t, hub.Join(context.Background(), documentId, client))
	assert.Equal(t, 1, hub.RoomSize(documentId))
}

func TestRelayExcludesSender(t *testing.T) {
	hub := NewHub(allowAll{}, nil, nopLogger{})
	documentId := uuid.New()

	c1 := newTestClient(hub)
	c2 := newTestClient(hub)
	c3 := newTestClient(hub)
	for _, c := range []*Client{c1, c2, c3} {
		require.NoError(t, hub.Join(context.Background(), documentId, c))
	}

	payload := []byte(`{"type":"edit","document_id":"x","delta":"abc"}`)
	hub.Relay(documentId, c1, payload)

	assert.Equal(t, payload, recvFrame(t, c2))
	assert.Equal(t, payload, recvFrame(t, c3))
	assertNoFrame(t, c1)
}

func TestRelayToEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub(allowAll{}, nil, nopLogger{})
	documentId := uuid.New()

	c1 := newTestClient(hub)
	require.NoError(t, hub.Join(context.Background(), documentId, c1))

	// Only the sender is present: nothing to deliver, nothing to fail.
	hub.Relay(documentId, c1, []byte(`{"type":"edit"}`))
	assertNoFrame(t, c1)
}

func TestRoomGarbageCollection(t *testing.T) {
	hub := NewHub(allowAll{}, nil, nopLogger{})
	documentId := uuid.New()

	c1 := newTestClient(hub)
	c2 := newTestClient(hub)
	require.NoError(t, hub.Join(context.Background(), documentId, c1))
	require.NoError(t, hub.Join(context.Background(), documentId, c2))

	hub.Leave(documentId, c1)
	assert.Equal(t, 1, hub.RoomSize(documentId))

	hub.Leave(documentId, c2)
	assert.Equal(t, 0, hub.RoomSize(documentId))

	// A fresh join starts from an empty membership set, no stale peers.
	c3 := newTestClient(hub)
	require.NoError(t, hub.Join(context.Background(), documentId, c3))
	assert.Equal(t, 1, hub.RoomSize(documentId))

	hub.Relay(documentId, c3, []byte("x"))
	assertNoFrame(t, c1)
	assertNoFrame(t, c2)
}

func TestDisconnectLeavesAllRooms(t *testing.T) {
	hub := NewHub(allowAll{}, nil, nopLogger{})
	go hub.Run()

	docA := uuid.New()
	docB := uuid.New()

	client := newTestClient(hub)
	hub.register <- client
	require.NoError(t, hub.Join(context.Background(), docA, client))
	require.NoError(t, hub.Join(context.Background(), docB, client))

	peer := newTestClient(hub)
	require.NoError(t, hub.Join(context.Background(), docA, peer))

	hub.unregister <- client

	// The unregister is processed asynchronously by the run loop.
	assert.Eventually(t, func() bool {
		return hub.RoomSize(docA) == 1 && hub.RoomSize(docB) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestEvictedClientCannotRejoin(t *testing.T) {
	hub := NewHub(allowAll{}, nil, nopLogger{})
	go hub.Run()

	documentId := uuid.New()
	sender := newTestClient(hub)
	slow := newTestClient(hub)
	hub.register <- sender
	hub.register <- slow

	require.NoError(t, hub.Join(context.Background(), documentId, sender))
	require.NoError(t, hub.Join(context.Background(), documentId, slow))

	// Fill the slow member's buffer so the next relay stalls on it.
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("backlog")
	}
	hub.Relay(documentId, sender, []byte(`{"type":"edit"}`))

	// The eviction is processed asynchronously by the run loop.
	assert.Eventually(t, func() bool {
		return hub.RoomSize(documentId) == 1
	}, time.Second, 10*time.Millisecond)

	// The evicted connection is closed for good: a late join frame is
	// refused instead of re-admitting a closed channel to the room.
	assert.ErrorIs(t, hub.Join(context.Background(), documentId, slow), ErrConnectionClosed)
	assert.Equal(t, 1, hub.RoomSize(documentId))

	// Further fan-out must not touch the closed channel.
	assert.NotPanics(t, func() {
		hub.Relay(documentId, sender, []byte(`{"type":"edit"}`))
		hub.SendToUser(slow.UserID, []byte(`{"type":"notification"}`))
	})
}

func TestSendToUserReachesAllConnections(t *testing.T) {
	hub := NewHub(allowAll{}, nil, nopLogger{})
	go hub.Run()

	userId := uuid.New()
	tab1 := newClient(hub, nil, userId, "tester")
	tab2 := newClient(hub, nil, userId, "tester")
	other := newTestClient(hub)
	hub.register <- tab1
	hub.register <- tab2
	hub.register <- other

	assert.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.userClients[userId]) == 2
	}, time.Second, 10*time.Millisecond)

	frame, _ := json.Marshal(map[string]string{"type": "notification"})
	hub.SendToUser(userId, frame)

	assert.Equal(t, frame, recvFrame(t, tab1))
	assert.Equal(t, frame, recvFrame(t, tab2))
	assertNoFrame(t, other)
}
