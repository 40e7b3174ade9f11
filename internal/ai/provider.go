package ai

import "context"

// Message roles understood by every CompletionProvider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionProvider turns a conversation into a single text completion.
// Implementations do not retry; transport and API failures are returned
// to the caller as-is.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Message represents a single message in a conversation.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}
