package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventOrderDeleted       = "order_deleted"
	EventTableStatusChanged = "table_status_changed"
	EventDishUpdated        = "dish_updated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Publisher delivers domain events to interested consumers. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, msg Message)
}

// Publishers fans a message out to every publisher in the list.
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, msg Message) {
	for _, p := range ps {
		if p != nil {
			p.Publish(ctx, msg)
		}
	}
}

type discard struct{}

func (discard) Publish(context.Context, Message) {}

// Discard drops every message.
var Discard Publisher = discard{}

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// client owns one websocket connection; only its writePump writes to conn.
type client struct {
	conn *websocket.Conn
	role string
	send chan []byte
}

// Hub holds the kitchen display clients (admins and waiters) connected over websocket.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.RWMutex
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		log:     log,
	}
}

// Register adds a connection together with the role of its user and starts its writer.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()
	go h.writePump(c)
}

// Unregister removes and closes a connection. Calling it twice is harmless.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	c, ok := h.clients[conn]
	delete(h.clients, conn)
	if ok {
		close(c.send)
	}
	h.mutex.Unlock()
	if ok {
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Publish queues msg for every connected client and returns without waiting for the writes.
// A client whose queue is full is dropped.
func (h *Hub) Publish(_ context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("marshal kds message")
		return
	}

	var slow []*client
	h.mutex.RLock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	queued := len(h.clients) - len(slow)
	h.mutex.RUnlock()

	for _, c := range slow {
		h.log.WithField("role", c.role).Warn("dropping slow kds client")
		h.Unregister(c.conn)
	}
	h.log.WithFields(logrus.Fields{"event": msg.Event, "clients": queued}).Debug("kds broadcast")
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithError(err).WithField("role", c.role).Warn("dropping kds client")
			h.Unregister(c.conn)
			return
		}
	}
}
