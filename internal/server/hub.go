package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	maxReadSize  = 1024
	clientBuffer = 16
)

// Message types pushed to connected pages
const (
	MessagePanel    = "panel"
	MessageNotice   = "notice"
	MessageDocument = "document"
)

// Message is the JSON frame sent to WebSocket clients
type Message struct {
	Type       string `json:"type"`
	HTML       string `json:"html,omitempty"`
	Background string `json:"background,omitempty"`
	Message    string `json:"message,omitempty"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Document is a titled page produced by a command
type Document struct {
	Title string
	HTML  string
}

// client is one connected WebSocket peer
type client struct {
	id        string
	conn      *websocket.Conn
	send      chan Message
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Hub tracks connected pages and fans messages out to them.
// It also presents command output (warnings and documents).
type Hub struct {
	logger *zap.Logger

	mu       sync.RWMutex
	clients  map[string]*client
	document *Document
	outcome  Message
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[string]*client),
	}
}

// add registers a connection and returns the client and the new client count
func (h *Hub) add(conn *websocket.Conn) (*client, int) {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Message, clientBuffer),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("Client connected", zap.String("client", c.id), zap.Int("clients", count))
	go h.writePump(c)
	return c, count
}

// remove drops a client and returns the remaining client count.
// The second result is false when the client was already gone.
func (h *Hub) remove(c *client) (int, bool) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.close()
		h.logger.Debug("Client disconnected", zap.String("client", c.id), zap.Int("clients", count))
	}
	return count, ok
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. Slow clients miss messages rather
// than blocking the caller.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		h.sendLocked(c, msg)
	}
}

// send queues msg for one client
func (h *Hub) send(c *client, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.id]; ok {
		h.sendLocked(c, msg)
	}
}

func (h *Hub) sendLocked(c *client, msg Message) {
	select {
	case c.send <- msg:
	default:
		h.logger.Debug("Client buffer full, dropping message",
			zap.String("client", c.id),
			zap.String("type", msg.Type))
	}
}

// writePump owns all writes to the connection, including keepalive pings
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				h.logger.Debug("Write error to client", zap.String("client", c.id), zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.logger.Debug("Ping failed", zap.String("client", c.id), zap.Error(err))
				return
			}
		}
	}
}

// CloseAll disconnects every client
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// ShowWarning implements commands.Presenter.
// A warning withdraws the previous document so /now-playing never serves stale data.
func (h *Hub) ShowWarning(message string) {
	msg := Message{Type: MessageNotice, Message: message}

	h.mu.Lock()
	h.document = nil
	h.outcome = msg
	h.mu.Unlock()

	h.logger.Warn("Command warning", zap.String("message", message))
	h.Broadcast(msg)
}

// ShowDocument implements commands.Presenter.
// The document stays available at /now-playing until replaced.
func (h *Hub) ShowDocument(title, html string) {
	msg := Message{Type: MessageDocument, Title: title, URL: nowPlayingPath}

	h.mu.Lock()
	h.document = &Document{Title: title, HTML: html}
	h.outcome = msg
	h.mu.Unlock()

	h.logger.Info("Document ready", zap.String("title", title))
	h.Broadcast(msg)
}

// Outcome returns the last warning or document notification presented
func (h *Hub) Outcome() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.outcome, h.outcome.Type != ""
}

// Document returns the last document shown, if any
func (h *Hub) Document() (Document, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.document == nil {
		return Document{}, false
	}
	return *h.document, true
}
