package ai

import (
	"fmt"

	"github.com/windoze95/recipe-agent/internal/config"
)

// NewCompletionProvider builds the provider selected by LLM_PROVIDER.
func NewCompletionProvider(cfg *config.Config) (CompletionProvider, error) {
	env := cfg.EnvVars
	switch env.LLMProvider {
	case config.ProviderAnthropic:
		return NewAnthropicProvider(env.AnthropicAPIKey, env.LLMModel, env.LLMTimeout), nil
	case config.ProviderOpenAI:
		return NewOpenAIProvider(env.OpenAIAPIKey, env.LLMModel, "", env.LLMTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", env.LLMProvider)
	}
}
