package agent

import (
	"context"
	"time"

	"github.com/windoze95/recipe-agent/internal/formatter"
	"github.com/windoze95/recipe-agent/internal/recipes"
	"go.uber.org/zap/zapcore"
)

// SourceFactory builds a recipe source for the given provider API key.
type SourceFactory func(apiKey string) recipes.Source

// Runner is the per-request entry point used by transports. It checks the
// inbound message and the provider credential before running an Agent.
type Runner struct {
	apiKey    string
	parser    *QueryParser
	formatter formatter.Formatter
	newSource SourceFactory
	timeout   time.Duration
}

// NewRunner returns a Runner. A zero timeout leaves the caller's context
// deadline untouched.
func NewRunner(apiKey string, parser *QueryParser, f formatter.Formatter, newSource SourceFactory, timeout time.Duration) *Runner {
	return &Runner{
		apiKey:    apiKey,
		parser:    parser,
		formatter: f,
		newSource: newSource,
		timeout:   timeout,
	}
}

// Handle processes the last message of a conversation. A missing or
// non-user message only requests more input. A missing API key is reported
// without contacting the provider.
func (r *Runner) Handle(ctx context.Context, env Environment, msg *Message) {
	if !msg.IsUserInput() {
		env.RequestUserInput()
		return
	}

	if r.apiKey == "" {
		env.Log(zapcore.ErrorLevel, "Env variable SPOONACULAR_API_KEY is missing")
		env.Reply(ReplyConfigIncomplete)
		return
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	New(r.parser, r.newSource(r.apiKey), r.formatter).Run(ctx, env, *msg)
}
