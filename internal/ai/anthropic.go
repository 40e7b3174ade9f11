package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const anthropicMaxTokens = 1024

// AnthropicProvider implements CompletionProvider using Claude.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider creates a new AnthropicProvider. An empty model
// selects the default Sonnet model. The SDK's own retries are disabled.
func NewAnthropicProvider(apiKey, model string, timeout time.Duration, opts ...option.RequestOption) *AnthropicProvider {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
		option.WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}),
	}
	client := anthropic.NewClient(append(base, opts...)...)

	m := anthropic.ModelClaude3_5Sonnet20241022
	if model != "" {
		m = anthropic.Model(model)
	}
	return &AnthropicProvider{
		client: client,
		model:  m,
	}
}

// messagesToAnthropicParams converts our Message slice into Claude message params.
// System messages are separated out as they use a different field in the API.
func messagesToAnthropicParams(msgs []Message) (string, []anthropic.MessageParam) {
	var systemPrompt string
	var params []anthropic.MessageParam

	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			if systemPrompt != "" {
				systemPrompt += "\n\n"
			}
			systemPrompt += m.Content
		case RoleUser:
			params = append(params, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(m.Content),
				},
			})
		case RoleAssistant:
			params = append(params, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(m.Content),
				},
			})
		}
	}
	return systemPrompt, params
}

// extractTextContent returns the concatenated text blocks from a Claude response.
func extractTextContent(msg *anthropic.Message) (string, error) {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text content in Claude response")
	}
	return sb.String(), nil
}

// Complete sends the conversation to Claude and returns the text reply.
func (p *AnthropicProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	sysPrompt, msgParams := messagesToAnthropicParams(messages)
	if len(msgParams) == 0 {
		return "", errors.New("claude request has no user messages")
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		Messages:  msgParams,
	}
	if sysPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: sysPrompt},
		}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}

	return extractTextContent(resp)
}
