package websocket

import (
	"sync"

	"github.com/google/uuid"
)

// Room is the broadcast channel for one document. Each room carries its own
// lock so activity on one document never contends with another.
type Room struct {
	DocumentId uuid.UUID

	mu      sync.RWMutex
	members map[*Client]struct{}
}

func newRoom(documentId uuid.UUID) *Room {
	return &Room{
		DocumentId: documentId,
		members:    make(map[*Client]struct{}),
	}
}

// add is idempotent: joining a room twice is a no-op.
func (r *Room) add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[c] = struct{}{}
}

// remove drops the client and reports whether the room is now empty.
func (r *Room) remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, c)
	return len(r.members) == 0
}

func (r *Room) has(c *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[c]
	return ok
}

func (r *Room) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// broadcast delivers data to every member except the sender. A room with no
// other members is a silent no-op. Members whose Send channel is already
// closed are skipped; live members with a full buffer are reported back so
// the hub can evict them.
func (r *Room) broadcast(sender *Client, data []byte) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stalled []*Client
	for member := range r.members {
		if member == sender {
			continue
		}
		if delivered, alive := member.trySend(data); !delivered && alive {
			stalled = append(stalled, member)
		}
	}
	return stalled
}
