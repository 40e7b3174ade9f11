package agent

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RoleUser marks a message authored by the end user.
const RoleUser = "user"

// Message is one inbound chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IsUserInput reports whether m is a non-empty user-authored message.
func (m *Message) IsUserInput() bool {
	return m != nil && m.Role == RoleUser && strings.TrimSpace(m.Content) != ""
}

// LastMessage returns the final message of a conversation, or nil.
func LastMessage(msgs []Message) *Message {
	if len(msgs) == 0 {
		return nil
	}
	m := msgs[len(msgs)-1]
	return &m
}

// Environment is the hosting runtime seen by the agent. Replies go to the
// user; Log writes to the audit/debug stream. The two channels are
// independent and both are driven on every request.
type Environment interface {
	Reply(text string)
	Log(level zapcore.Level, msg string, fields ...zap.Field)
	RequestUserInput()
}
