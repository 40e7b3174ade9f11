package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagesToAnthropicParams(t *testing.T) {
	sys, params := messagesToAnthropicParams([]Message{
		{Role: RoleSystem, Content: "first"},
		{Role: RoleSystem, Content: "second"},
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	})

	assert.Equal(t, "first\n\nsecond", sys)
	require.Len(t, params, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, params[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, params[1].Role)
}

func TestExtractTextContent(t *testing.T) {
	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: `{"query":`},
			{Type: "text", Text: `"soup"}`},
		},
	}
	text, err := extractTextContent(msg)
	require.NoError(t, err)
	assert.Equal(t, `{"query":"soup"}`, text)

	_, err = extractTextContent(&anthropic.Message{})
	assert.Error(t, err)
}

func TestAnthropicProvider_Complete(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-sonnet-20241022",
			"content": [{"type": "text", "text": "{\"message\":\"I find recipes.\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("sk-ant-test", "", 5*time.Second, option.WithBaseURL(srv.URL))
	out, err := p.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "extract"},
		{Role: RoleUser, Content: "what can you do?"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"message":"I find recipes."}`, out)

	assert.Equal(t, "claude-3-5-sonnet-20241022", got["model"])
	system, ok := got["system"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, "extract", system[0].(map[string]interface{})["text"])
}

func TestAnthropicProvider_ServerErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("sk-ant-test", "claude-haiku-4-5-20251001", 5*time.Second, option.WithBaseURL(srv.URL))
	_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestAnthropicProvider_NoUserMessages(t *testing.T) {
	p := NewAnthropicProvider("sk-ant-test", "", time.Second)
	_, err := p.Complete(context.Background(), []Message{{Role: RoleSystem, Content: "only system"}})
	assert.Error(t, err)
}
