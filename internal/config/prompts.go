package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// PromptPair holds a system and user prompt template.
type PromptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// AgentPrompts holds the prompt templates used by the recipe agent.
type AgentPrompts struct {
	Parse PromptPair `yaml:"parse"`
}

// Prompts is the top-level prompt configuration loaded from YAML.
type Prompts struct {
	Agent AgentPrompts `yaml:"agent"`
}

// LoadPrompts reads and parses a YAML prompt configuration file.
func LoadPrompts(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var prompts Prompts
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompts YAML: %w", err)
	}

	if strings.TrimSpace(prompts.Agent.Parse.System) == "" {
		return nil, fmt.Errorf("prompts file %s has no agent.parse.system prompt", path)
	}
	if strings.TrimSpace(prompts.Agent.Parse.User) == "" {
		prompts.Agent.Parse.User = "{{.Prompt}}"
	}

	return &prompts, nil
}

// RenderPrompt executes Go template interpolation on a prompt string.
// The data map provides values for template placeholders like {{.Prompt}}.
func RenderPrompt(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
