package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/windoze95/recipe-agent/internal/ai"
	"github.com/windoze95/recipe-agent/internal/config"
	"github.com/windoze95/recipe-agent/internal/models"
	"github.com/windoze95/recipe-agent/internal/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxParseAttempts bounds the number of completions requested per message.
const MaxParseAttempts = 3

// ErrMalformedOutput marks a completion that is not a usable JSON object.
// Only this error is retried by QueryParser.
var ErrMalformedOutput = errors.New("malformed model output")

// ParseError is returned once every parse attempt produced malformed output.
type ParseError struct {
	Attempts int
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse user message after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParsedQuery is either a SearchQuery or a CapabilityReply.
type ParsedQuery interface {
	parsedQuery()
}

// SearchQuery carries the filters extracted from a recipe request.
type SearchQuery struct {
	Filters models.SearchFilters
}

// CapabilityReply carries the model's description of the assistant, given
// when the user asks what it can do.
type CapabilityReply struct {
	Message string
}

func (SearchQuery) parsedQuery()     {}
func (CapabilityReply) parsedQuery() {}

// QueryParser turns a user message into a ParsedQuery with a language model.
type QueryParser struct {
	provider    ai.CompletionProvider
	prompts     *config.Prompts
	maxAttempts int
}

// NewQueryParser returns a QueryParser allowing MaxParseAttempts attempts.
func NewQueryParser(provider ai.CompletionProvider, prompts *config.Prompts) *QueryParser {
	return &QueryParser{
		provider:    provider,
		prompts:     prompts,
		maxAttempts: MaxParseAttempts,
	}
}

func (p *QueryParser) buildMessages(msg Message) ([]ai.Message, error) {
	sysPrompt, err := config.RenderPrompt(p.prompts.Agent.Parse.System, nil)
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}
	userPrompt, err := config.RenderPrompt(p.prompts.Agent.Parse.User, map[string]interface{}{
		"Prompt": msg.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("render user prompt: %w", err)
	}
	return []ai.Message{
		{Role: ai.RoleSystem, Content: sysPrompt},
		{Role: ai.RoleUser, Content: userPrompt},
	}, nil
}

// Parse requests completions until one decodes, up to the attempt limit.
// Each attempt and its raw completion are logged before validation.
// Completion errors are returned immediately without retrying.
func (p *QueryParser) Parse(ctx context.Context, env Environment, msg Message) (ParsedQuery, error) {
	messages, err := p.buildMessages(msg)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		env.Log(zapcore.DebugLevel, fmt.Sprintf("Attempt #%d to parse user message", attempt))

		completion, err := p.provider.Complete(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("completion failed: %w", err)
		}
		env.Log(zapcore.DebugLevel, "model completion",
			zap.Int("attempt", attempt),
			zap.String("completion", completion),
		)

		parsed, err := decodeParsedQuery(completion)
		if err == nil {
			return parsed, nil
		}
		if !errors.Is(err, ErrMalformedOutput) {
			return nil, err
		}
		lastErr = err
	}

	return nil, &ParseError{Attempts: p.maxAttempts, Err: lastErr}
}

// decodeParsedQuery accepts exactly one JSON object. An object whose
// "message" is a string is a CapabilityReply; anything else must decode
// as SearchFilters.
func decodeParsedQuery(completion string) (ParsedQuery, error) {
	var raw map[string]json.RawMessage
	if err := util.DeserializeFromJSONString(completion, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedOutput)
	}

	if rawMsg, ok := raw["message"]; ok {
		var message *string
		if err := json.Unmarshal(rawMsg, &message); err == nil && message != nil {
			return CapabilityReply{Message: *message}, nil
		}
	}

	var filters models.SearchFilters
	if err := util.DeserializeFromJSONString(completion, &filters); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return SearchQuery{Filters: filters.Normalize()}, nil
}
