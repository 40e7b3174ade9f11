package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/windoze95/recipe-agent/internal/formatter"
	"github.com/windoze95/recipe-agent/internal/models"
	"github.com/windoze95/recipe-agent/internal/recipes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// User-facing replies.
const (
	ReplyPreparing        = "Preparing recipes to match your taste"
	ReplyFoundFormat      = "Found %d recipes for you"
	ReplyNoRecipes        = "Unfortunately, couldn't find any recipes matching your request. Please consider being more specific next time!"
	ReplyRetry            = "Please try again"
	ReplyUnexpected       = "Something went wrong, please be patient until developer fixes it"
	ReplyConfigIncomplete = "Environment configuration isn't complete, please be patient until the developer fixes it"
)

// SearchMaxAmount is the number of recipes requested per search.
const SearchMaxAmount = 5

var tracer = otel.Tracer("github.com/windoze95/recipe-agent/internal/agent")

// Agent handles one user message: parse, search, render.
type Agent struct {
	parser    *QueryParser
	source    recipes.Source
	formatter formatter.Formatter
}

// New returns an Agent.
func New(parser *QueryParser, source recipes.Source, f formatter.Formatter) *Agent {
	return &Agent{
		parser:    parser,
		source:    source,
		formatter: f,
	}
}

// Run processes msg and always emits at least one reply. Failures are
// logged at error level and answered with a single apology.
func (a *Agent) Run(ctx context.Context, env Environment, msg Message) {
	ctx, span := tracer.Start(ctx, "agent.run")
	defer span.End()

	err := a.runSafely(ctx, env, msg)
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	env.Log(zapcore.ErrorLevel, err.Error(), zap.Error(err))

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		env.Reply(ReplyRetry)
		return
	}
	env.Reply(ReplyUnexpected)
}

func (a *Agent) runSafely(ctx context.Context, env Environment, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while handling message: %v", r)
		}
	}()
	return a.run(ctx, env, msg)
}

func (a *Agent) run(ctx context.Context, env Environment, msg Message) error {
	parsed, err := a.parse(ctx, env, msg)
	if err != nil {
		return err
	}

	switch q := parsed.(type) {
	case CapabilityReply:
		env.Log(zapcore.DebugLevel, "Parsed capability question", zap.String("message", q.Message))
		env.Reply(q.Message)
		return nil
	case SearchQuery:
		env.Log(zapcore.DebugLevel, "Parsed user's preferences", zap.Any("filters", q.Filters))
		return a.search(ctx, env, q.Filters)
	default:
		return fmt.Errorf("unsupported parsed query %T", parsed)
	}
}

func (a *Agent) parse(ctx context.Context, env Environment, msg Message) (ParsedQuery, error) {
	ctx, span := tracer.Start(ctx, "agent.parse")
	defer span.End()
	return a.parser.Parse(ctx, env, msg)
}

func (a *Agent) search(ctx context.Context, env Environment, filters models.SearchFilters) error {
	env.Reply(ReplyPreparing)

	found, err := a.fetch(ctx, filters)
	if err != nil {
		return err
	}

	dumps := make([]string, len(found))
	for i, r := range found {
		dumps[i] = r.String()
	}
	env.Log(zapcore.DebugLevel, fmt.Sprintf("Fetched %d recipes", len(found)), zap.Strings("recipes", dumps))

	if len(found) == 0 {
		env.Reply(ReplyNoRecipes)
		return nil
	}

	// Render everything before replying so a failure leaves no partial output.
	texts := make([]string, len(found))
	for i, r := range found {
		texts[i] = a.formatter.Format(r)
	}

	env.Reply(fmt.Sprintf(ReplyFoundFormat, len(found)))
	for _, text := range texts {
		env.Reply(text)
	}
	return nil
}

func (a *Agent) fetch(ctx context.Context, filters models.SearchFilters) ([]models.Recipe, error) {
	ctx, span := tracer.Start(ctx, "agent.fetch")
	defer span.End()

	span.SetAttributes(attribute.String("recipe.query", filters.Query))
	found, err := a.source.FetchRecipes(ctx, recipes.SearchParams{
		SearchFilters: filters,
		MaxAmount:     SearchMaxAmount,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("recipe.count", len(found)))
	return found, nil
}
