package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
)

// LLM provider names accepted by LLM_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config holds the application configuration.
type Config struct {
	EnvVars EnvVars  `json:"env"`
	Prompts *Prompts `json:"-"`
}

// EnvVars holds environment variables required by the application.
// Fields tagged `optional:"true"` are skipped by CheckConfigEnvFields.
// SpoonacularAPIKey is optional here because a missing key is reported to
// the user per request rather than failing startup.
type EnvVars struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	SpoonacularAPIKey string        `env:"SPOONACULAR_API_KEY" optional:"true"`
	SpoonacularURL    string        `env:"SPOONACULAR_API_URL" envDefault:"https://api.spoonacular.com/recipes/complexSearch"`
	LLMProvider       string        `env:"LLM_PROVIDER" envDefault:"anthropic"`
	LLMModel          string        `env:"LLM_MODEL" optional:"true"`
	AnthropicAPIKey   string        `env:"ANTHROPIC_API_KEY" optional:"true"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY" optional:"true"`
	LLMTimeout        time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	SearchTimeout     time.Duration `env:"SEARCH_TIMEOUT" envDefault:"10s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"90s"`
	PromptsPath       string        `env:"PROMPTS_PATH" envDefault:"configs/prompts.yaml"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	JwtSecretKey      string        `env:"JWT_SECRET_KEY" optional:"true"`
	OTLPEndpoint      string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" optional:"true"`
}

// LoadConfig parses environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	var config Config
	if err := env.Parse(&config.EnvVars); err != nil {
		return nil, err
	}
	return &config, nil
}

// CheckConfigEnvFields validates that all required EnvVars fields are set.
func (c *Config) CheckConfigEnvFields() error {
	return checkFieldsRecursive(reflect.ValueOf(c.EnvVars))
}

// CheckProviderKey validates the selected LLM provider and its API key.
func (c *Config) CheckProviderKey() error {
	switch c.EnvVars.LLMProvider {
	case ProviderAnthropic:
		if c.EnvVars.AnthropicAPIKey == "" {
			return fmt.Errorf("$AnthropicAPIKey must be set when LLM_PROVIDER=%s", ProviderAnthropic)
		}
	case ProviderOpenAI:
		if c.EnvVars.OpenAIAPIKey == "" {
			return fmt.Errorf("$OpenAIAPIKey must be set when LLM_PROVIDER=%s", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.EnvVars.LLMProvider)
	}
	return nil
}

func checkFieldsRecursive(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := v.Type().Field(i)
		if fieldType.Tag.Get("optional") == "true" {
			continue
		}
		if field.IsZero() {
			return fmt.Errorf("$%s must be set", fieldType.Name)
		}
		if field.Kind() == reflect.Struct {
			if err := checkFieldsRecursive(field); err != nil {
				return err
			}
		}
	}
	return nil
}
