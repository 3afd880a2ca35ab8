// internal/app/system/realtime/hub.go

// Package realtime fans change events out to subscribed listeners, scoped
// by room. The hub is an owned registry created at startup and passed by
// handle into the features that publish or subscribe; entries are cleared
// on disconnect. Delivery is best effort: publishing never blocks and
// never fails the mutation that triggered it.
package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event types emitted by mutation handlers.
const (
	EventTableUpdated     = "table_updated"
	EventStructureChanged = "structure_changed"
	EventNotification     = "notification"
	EventDepartmentGone   = "department_deleted"
)

// Event is one realtime message.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Room name builders. Room scoping mirrors the data ownership model:
// departments for table changes, factions for reference data, users for
// personal notifications.
func DepartmentRoom(id primitive.ObjectID) string { return "department_" + id.Hex() }
func FactionRoom(code string) string              { return "faction_" + code }
func UserRoom(id primitive.ObjectID) string       { return "user_" + id.Hex() }

// Subscriber is one connected listener. Events arrive on C; the channel
// is closed when the subscriber is removed or the hub shuts down.
type Subscriber struct {
	ID     string
	UserID primitive.ObjectID
	C      chan Event
	rooms  []string
}

// Hub is the subscriber registry.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscriber
	rooms  map[string]map[string]*Subscriber
	closed bool
	log    *zap.Logger
}

// subscriber channel depth; a subscriber this far behind is dropped
const eventBuffer = 16

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:  make(map[string]*Subscriber),
		rooms: make(map[string]map[string]*Subscriber),
		log:   logger,
	}
}

// Subscribe registers a listener for the given rooms and returns it.
// Returns nil if the hub has shut down.
func (h *Hub) Subscribe(userID primitive.ObjectID, rooms ...string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	sub := &Subscriber{
		ID:     uuid.NewString(),
		UserID: userID,
		C:      make(chan Event, eventBuffer),
		rooms:  append([]string{UserRoom(userID)}, rooms...),
	}
	h.subs[sub.ID] = sub
	for _, room := range sub.rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[string]*Subscriber)
		}
		h.rooms[room][sub.ID] = sub
	}
	return sub
}

// Unsubscribe removes the listener and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.ID]; !ok {
		return
	}
	delete(h.subs, sub.ID)
	for _, room := range sub.rooms {
		if members := h.rooms[room]; members != nil {
			delete(members, sub.ID)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	close(sub.C)
}

// Publish delivers the event to every subscriber of the room. It never
// blocks: a subscriber whose buffer is full misses the event (they hold
// an unread notification to poll for instead).
func (h *Hub) Publish(room string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, sub := range h.rooms[room] {
		select {
		case sub.C <- ev:
		default:
			h.log.Warn("realtime subscriber lagging, event dropped",
				zap.String("subscriber", sub.ID),
				zap.String("room", room),
				zap.String("event", ev.Type))
		}
	}
}

// RoomSize returns the number of subscribers in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close shuts the hub down and closes every subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.C)
	}
	h.rooms = make(map[string]map[string]*Subscriber)
}
