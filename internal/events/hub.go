package events

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write to a subscriber.
	writeWait = 5 * time.Second
	// sendBuffer is how many events may queue per subscriber before it is dropped.
	sendBuffer = 64
)

type subscriber struct {
	conn *websocket.Conn
	send chan Event
}

// Hub tracks WebSocket subscribers per room and pushes events to them. Each subscriber has
// its own writer goroutine; Publish only enqueues and never waits on the network.
type Hub struct {
	rooms map[int64]map[*websocket.Conn]*subscriber
	mutex sync.Mutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[int64]map[*websocket.Conn]*subscriber)}
}

func (h *Hub) Register(roomID int64, conn *websocket.Conn) {
	sub := &subscriber{conn: conn, send: make(chan Event, sendBuffer)}

	h.mutex.Lock()
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[*websocket.Conn]*subscriber)
		h.rooms[roomID] = subs
	}
	subs[conn] = sub
	h.mutex.Unlock()

	go h.writeLoop(roomID, sub)
}

// writeLoop is the only writer of sub.conn. It ends when sub.send is closed.
func (h *Hub) writeLoop(roomID int64, sub *subscriber) {
	for ev := range sub.send {
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteJSON(ev); err != nil {
			h.Unregister(roomID, sub.conn)
			return
		}
	}
}

func (h *Hub) Unregister(roomID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(roomID, conn)
}

// drop must be called with the mutex held.
func (h *Hub) drop(roomID int64, conn *websocket.Conn) {
	subs, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if sub, ok := subs[conn]; ok {
		close(sub.send)
		_ = conn.Close()
		delete(subs, conn)
	}
	if len(subs) == 0 {
		delete(h.rooms, roomID)
	}
}

// Publish queues the event for every subscriber of its room. A subscriber whose queue is
// full is dropped.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, sub := range h.rooms[ev.RoomID] {
		select {
		case sub.send <- ev:
		default:
			h.drop(ev.RoomID, conn)
		}
	}
	return nil
}

func (h *Hub) Subscribers(roomID int64) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.rooms[roomID])
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for roomID, subs := range h.rooms {
		for conn := range subs {
			h.drop(roomID, conn)
		}
	}
}
