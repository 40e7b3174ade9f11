package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipe-agent/internal/agent"
	"github.com/windoze95/recipe-agent/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ChatRequest is the body of POST /v1/chat. Only the last message is handled.
type ChatRequest struct {
	Messages []agent.Message `json:"messages" binding:"required"`
}

// ChatResponse collects every reply produced for one request.
type ChatResponse struct {
	Replies       []string `json:"replies"`
	AwaitingInput bool     `json:"awaiting_input"`
}

// ChatHandler is the handler for conversational recipe requests.
type ChatHandler struct {
	Runner *agent.Runner
}

// NewChatHandler is the constructor function for initializing a new ChatHandler.
func NewChatHandler(runner *agent.Runner) *ChatHandler {
	return &ChatHandler{Runner: runner}
}

// Chat handles the last message of the posted conversation and returns the
// agent's replies in emission order.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	env := &bufferedEnvironment{log: logger.FromContext(c)}
	h.Runner.Handle(c.Request.Context(), env, agent.LastMessage(req.Messages))

	c.JSON(http.StatusOK, env.response())
}

// bufferedEnvironment collects replies for a single HTTP response and
// forwards log records to the request logger.
type bufferedEnvironment struct {
	mu            sync.Mutex
	log           *zap.Logger
	replies       []string
	awaitingInput bool
}

func (e *bufferedEnvironment) Reply(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replies = append(e.replies, text)
}

func (e *bufferedEnvironment) Log(level zapcore.Level, msg string, fields ...zap.Field) {
	e.log.Log(level, msg, fields...)
}

func (e *bufferedEnvironment) RequestUserInput() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.awaitingInput = true
}

func (e *bufferedEnvironment) response() ChatResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	replies := e.replies
	if replies == nil {
		replies = []string{}
	}
	return ChatResponse{Replies: replies, AwaitingInput: e.awaitingInput}
}
