// Package kds fans reservation-floor events out to connected staff screens
// over websockets.
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
	EventTableCreate       = "table_create"
	EventTableDelete       = "table_delete"
	EventReservationCreate = "reservation_create"
	EventReservationDelete = "reservation_delete"
)

const (
	writeWait = 5 * time.Second
	// events queued per client before it counts as stalled
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	role string
	send chan []byte
}

// Hub holds the connected clients. Every client has its own writer
// goroutine so a slow connection never holds up Publish.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		log:     log,
	}
}

// Register -> add a connection with its role and start its writer
func (h *Hub) Register(conn *websocket.Conn, role string) {
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithField("role", c.role).Warnf("dropping websocket client: %v", err)
			h.Unregister(c.conn)
			return
		}
	}
}

// Unregister -> drop and close a connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	h.remove(c)
}

// remove expects h.mutex to be held.
func (h *Hub) remove(c *client) {
	delete(h.clients, c.conn)
	close(c.send)
	c.conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues msg for every client and returns without waiting for the
// writes. Clients whose queue is full are dropped; that is not reported as
// an error.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.WithFields(logrus.Fields{"event": msg.Event, "role": c.role}).
				Warn("dropping stalled websocket client")
			h.remove(c)
		}
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn, c := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		h.remove(c)
	}
}
