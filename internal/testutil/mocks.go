package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/windoze95/recipe-agent/internal/ai"
	"github.com/windoze95/recipe-agent/internal/models"
	"github.com/windoze95/recipe-agent/internal/recipes"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// --- MockCompletionProvider ---

// MockCompletionProvider is a mock implementation of ai.CompletionProvider.
type MockCompletionProvider struct {
	CompleteFunc func(ctx context.Context, messages []ai.Message) (string, error)

	mu    sync.Mutex
	calls [][]ai.Message
}

func (m *MockCompletionProvider) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}
	return "", fmt.Errorf("Complete not configured")
}

// Calls returns the number of Complete invocations.
func (m *MockCompletionProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastMessages returns the messages passed to the most recent Complete call.
func (m *MockCompletionProvider) LastMessages() []ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// SequenceCompletions returns a CompleteFunc that yields the given outputs
// in order and repeats the last one once they run out.
func SequenceCompletions(outputs ...string) func(ctx context.Context, messages []ai.Message) (string, error) {
	var mu sync.Mutex
	i := 0
	return func(ctx context.Context, messages []ai.Message) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		out := outputs[i]
		if i < len(outputs)-1 {
			i++
		}
		return out, nil
	}
}

// --- MockRecipeSource ---

// MockRecipeSource is a mock implementation of recipes.Source.
type MockRecipeSource struct {
	FetchRecipesFunc func(ctx context.Context, params recipes.SearchParams) ([]models.Recipe, error)

	mu     sync.Mutex
	Params []recipes.SearchParams
}

func (m *MockRecipeSource) FetchRecipes(ctx context.Context, params recipes.SearchParams) ([]models.Recipe, error) {
	m.mu.Lock()
	m.Params = append(m.Params, params)
	m.mu.Unlock()

	if m.FetchRecipesFunc != nil {
		return m.FetchRecipesFunc(ctx, params)
	}
	return nil, fmt.Errorf("FetchRecipes not configured")
}

// Calls returns the number of FetchRecipes invocations.
func (m *MockRecipeSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Params)
}

// --- RecordingEnvironment ---

// LogEntry is one record written to a RecordingEnvironment's log channel.
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Fields  []zap.Field
}

// RecordingEnvironment captures replies, logs and input requests.
type RecordingEnvironment struct {
	mu             sync.Mutex
	Replies        []string
	Logs           []LogEntry
	InputRequested int
}

func (e *RecordingEnvironment) Reply(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Replies = append(e.Replies, text)
}

func (e *RecordingEnvironment) Log(level zapcore.Level, msg string, fields ...zap.Field) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Logs = append(e.Logs, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (e *RecordingEnvironment) RequestUserInput() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.InputRequested++
}

// LogsAt returns the log messages recorded at the given level.
func (e *RecordingEnvironment) LogsAt(level zapcore.Level) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, l := range e.Logs {
		if l.Level == level {
			out = append(out, l.Message)
		}
	}
	return out
}
