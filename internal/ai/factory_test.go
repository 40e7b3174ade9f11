package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windoze95/recipe-agent/internal/config"
)

func TestNewCompletionProvider(t *testing.T) {
	cfg := &config.Config{EnvVars: config.EnvVars{
		LLMProvider:     config.ProviderAnthropic,
		AnthropicAPIKey: "sk-ant",
		OpenAIAPIKey:    "sk-openai",
		LLMTimeout:      time.Second,
	}}

	p, err := NewCompletionProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicProvider{}, p)

	cfg.EnvVars.LLMProvider = config.ProviderOpenAI
	p, err = NewCompletionProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	cfg.EnvVars.LLMProvider = "llama"
	_, err = NewCompletionProvider(cfg)
	assert.Error(t, err)
}
