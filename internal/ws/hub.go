package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/windoze95/recipe-agent/internal/logger"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Default time allowed to read the next pong message from the peer.
	defaultPongWait = 60 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 8192
)

// Client represents a single chat session over a WebSocket connection.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID string
	Subject   string
}

// Hub tracks active chat sessions. Sessions are independent; nothing is
// shared between them.
type Hub struct {
	// PongWait is the time allowed to read the next pong message from a
	// peer. Pings are sent at nine tenths of it.
	PongWait time.Duration

	Sessions   map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		PongWait:   defaultPongWait,
		Sessions:   make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run handles register and unregister events. It should be launched as a
// goroutine.
func (h *Hub) Run() {
	log := logger.Get()

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Sessions[client.SessionID] = client
			h.mu.Unlock()

			log.Info("client registered",
				zap.String("session_id", client.SessionID),
				zap.String("subject", client.Subject),
			)

		case client := <-h.Unregister:
			h.mu.Lock()
			if existing, ok := h.Sessions[client.SessionID]; ok && existing == client {
				delete(h.Sessions, client.SessionID)
				close(client.Send)
			}
			h.mu.Unlock()

			log.Info("client unregistered",
				zap.String("session_id", client.SessionID),
				zap.String("subject", client.Subject),
			)
		}
	}
}

// Count returns the number of active sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Sessions)
}

// ReadPump reads messages from the WebSocket connection. It is intended to be
// run in a per-client goroutine. The provided handler is called for each
// incoming message, so messages on one connection are handled in order.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	pongWait := c.Hub.PongWait

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				logger.Get().Warn("unexpected websocket close",
					zap.String("session_id", c.SessionID),
					zap.Error(err),
				)
			}
			break
		}
		handler(c, message)

		// Pongs are not read while the handler runs.
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// WritePump sends messages from the Send channel to the WebSocket connection.
// It also sends periodic pings to keep the connection alive. It is intended to
// be run in a per-client goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.Hub.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
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
