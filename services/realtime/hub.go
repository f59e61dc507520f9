// Package realtime relays chat and notification frames between WebSocket clients.
package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core"
)

// Frame types
const (
	TypeConnection   = "connection"
	TypeChat         = "chat"
	TypeNotification = "notification"
)

const (
	welcomeMessage  = "Connected to School Connect WebSocket server"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"

	sendBufferSize = 64
	maxFrameSize   = 64 << 10
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

var ErrClosed = errors.New("hub closed")

// Frame is the JSON envelope exchanged with clients. Payload fields are relayed verbatim.
type Frame struct {
	Type      string          `json:"type"`
	Sender    json.RawMessage `json:"sender,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	Title     json.RawMessage `json:"title,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

func raw(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func now() string { return time.Now().UTC().Format(timestampLayout) }

// ChatFrame builds a chat frame sent by the server itself.
func ChatFrame(sender, content interface{}) Frame {
	return Frame{Type: TypeChat, Sender: raw(sender), Content: raw(content), Timestamp: now()}
}

// NotificationFrame builds a notification frame sent by the server itself.
func NotificationFrame(title, message string) Frame {
	return Frame{Type: TypeNotification, Title: raw(title), Message: raw(message), Timestamp: now()}
}

// Metrics observes the activity of a Hub.
type Metrics interface {
	ClientConnected()
	ClientDisconnected()
	FrameRelayed(frameType string, recipients int)
}

type noopMetrics struct{}

func (noopMetrics) ClientConnected()         {}
func (noopMetrics) ClientDisconnected()      {}
func (noopMetrics) FrameRelayed(string, int) {}

type Option func(*Hub)

func WithMetrics(m Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

// Hub tracks the open connections and fans frames out to them.
// No delivery guarantee: a client that cannot keep up is disconnected.
type Hub struct {
	upgrader websocket.Upgrader
	logger   core.Logger
	metrics  Metrics

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub(logger core.Logger, opts ...Option) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logger,
		metrics: noopMetrics{},
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ServeWS upgrades the request and starts relaying for the new client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return errors.Wrap(err, "upgrading connection")
	}

	c := &client{id: uuid.NewString(), hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	welcome, err := json.Marshal(Frame{Type: TypeConnection, Message: raw(welcomeMessage)})
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "encoding welcome frame")
	}
	c.send <- welcome

	if err = h.register(c); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		_ = conn.Close()
		return err
	}
	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.clients[c] = struct{}{}
	h.metrics.ClientConnected()
	h.logger.Debug(fmt.Sprintf("websocket client %s connected", c.id))
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked must be called with h.mu held.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.metrics.ClientDisconnected()
	h.logger.Debug(fmt.Sprintf("websocket client %s disconnected", c.id))
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends a server frame to every client.
func (h *Hub) Publish(f Frame) {
	h.broadcast(f, nil)
}

func (h *Hub) broadcast(f Frame, except *client) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Error(fmt.Sprintf("encoding %s frame: %v", f.Type, err), err)
		return
	}

	var slow []*client
	recipients := 0
	h.mu.RLock()
	for c := range h.clients {
		if c == except {
			continue
		}
		select {
		case c.send <- data:
			recipients++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()
	h.metrics.FrameRelayed(f.Type, recipients)

	if len(slow) > 0 {
		h.mu.Lock()
		for _, c := range slow {
			h.logger.Warn(fmt.Sprintf("websocket client %s is too slow, disconnecting", c.id))
			h.removeLocked(c)
		}
		h.mu.Unlock()
	}
}

// handle relays a frame received from c.
func (h *Hub) handle(c *client, data []byte) {
	var in Frame
	if err := json.Unmarshal(data, &in); err != nil {
		h.logger.Warn(fmt.Sprintf("websocket client %s sent a malformed frame: %v", c.id, err))
		return
	}

	switch in.Type {
	case TypeChat:
		h.broadcast(Frame{Type: TypeChat, Sender: in.Sender, Content: in.Content, Timestamp: now()}, c)
	case TypeNotification:
		h.broadcast(Frame{Type: TypeNotification, Title: in.Title, Message: in.Message, Timestamp: now()}, nil)
	default:
		h.logger.Warn(fmt.Sprintf("websocket client %s sent an unknown frame type %q", c.id, in.Type))
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.hub.logger.Warn(fmt.Sprintf("websocket client %s: %v", c.id, err))
			}
			return
		}
		c.hub.handle(c, data)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
