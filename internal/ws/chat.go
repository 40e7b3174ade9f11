package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/windoze95/recipe-agent/internal/agent"
	"github.com/windoze95/recipe-agent/internal/logger"
	"github.com/windoze95/recipe-agent/internal/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WebSocket message types for the chat protocol.
const (
	MsgTypeChatMessage    = "chat_message"    // User sends a message
	MsgTypeReply          = "reply"           // One agent reply
	MsgTypeInputRequested = "input_requested" // Agent is waiting for a user message
	MsgTypeDone           = "done"            // Agent finished handling a message
	MsgTypeError          = "error"           // Protocol error
	MsgTypeConnected      = "connected"       // Connection confirmed
)

// WSMessage is the envelope for all messages sent over the chat WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReplyPayload carries one agent reply.
type ReplyPayload struct {
	Message string `json:"message"`
}

// ErrorPayload carries an error message to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	SessionID string `json:"session_id"`
}

// ChatHandler manages WebSocket chat sessions.
type ChatHandler struct {
	Hub      *Hub
	Runner   *agent.Runner
	upgrader websocket.Upgrader
}

// NewChatHandler returns a new ChatHandler. Upgrades are accepted from the
// given origins and from localhost.
func NewChatHandler(hub *Hub, runner *agent.Runner, allowedOrigins []string) *ChatHandler {
	return &ChatHandler{
		Hub:    hub,
		Runner: runner,
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, origin) {
			return true
		}
		// Allow localhost for development
		return strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost"
	}
}

// HandleChatSession upgrades an HTTP request to a WebSocket chat session.
// Authentication, when enabled, has already run as middleware.
func (ch *ChatHandler) HandleChatSession(c *gin.Context) {
	log := logger.FromContext(c)

	subject, _ := util.GetSubjectFromContext(c)
	sessionID := uuid.New().String()

	conn, err := ch.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return
	}

	client := &Client{
		Hub:       ch.Hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		SessionID: sessionID,
		Subject:   subject,
	}
	ch.Hub.Register <- client

	send(client, MsgTypeConnected, ConnectedPayload{SessionID: sessionID})

	log.Info("chat session started",
		zap.String("session_id", sessionID),
		zap.String("subject", subject),
	)

	go client.WritePump()
	go client.ReadPump(func(cl *Client, data []byte) {
		ch.handleMessage(cl, data)
	})
}

// handleMessage parses an incoming WebSocket message and routes it to the
// appropriate handler.
func (ch *ChatHandler) handleMessage(client *Client, data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		sendError(client, "invalid message format")
		return
	}

	logger.Get().Debug("received ws message",
		zap.String("type", msg.Type),
		zap.String("session_id", client.SessionID),
	)

	switch msg.Type {
	case MsgTypeChatMessage:
		ch.handleChatMessage(client, msg.Payload)
	default:
		sendError(client, "unknown message type: "+msg.Type)
	}
}

// handleChatMessage runs the agent on one message. A payload without a role
// is treated as coming from the user.
func (ch *ChatHandler) handleChatMessage(client *Client, payload json.RawMessage) {
	var chatMsg agent.Message
	if err := json.Unmarshal(payload, &chatMsg); err != nil {
		sendError(client, "invalid chat message payload")
		return
	}
	if chatMsg.Role == "" {
		chatMsg.Role = agent.RoleUser
	}

	env := &socketEnvironment{
		client: client,
		log: logger.With(
			zap.String("session_id", client.SessionID),
			zap.String("subject", client.Subject),
		),
	}
	ch.Runner.Handle(context.Background(), env, &chatMsg)

	send(client, MsgTypeDone, struct{}{})
}

// socketEnvironment delivers replies as frames on the client's socket.
type socketEnvironment struct {
	client *Client
	log    *zap.Logger
}

func (e *socketEnvironment) Reply(text string) {
	send(e.client, MsgTypeReply, ReplyPayload{Message: text})
}

func (e *socketEnvironment) Log(level zapcore.Level, msg string, fields ...zap.Field) {
	e.log.Log(level, msg, fields...)
}

func (e *socketEnvironment) RequestUserInput() {
	send(e.client, MsgTypeInputRequested, struct{}{})
}

func send(client *Client, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	msg, _ := json.Marshal(WSMessage{
		Type:    msgType,
		Payload: data,
	})
	client.Send <- msg
}

func sendError(client *Client, message string) {
	send(client, MsgTypeError, ErrorPayload{Message: message})
}
