package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windoze95/recipe-agent/internal/agent"
	"github.com/windoze95/recipe-agent/internal/config"
	"github.com/windoze95/recipe-agent/internal/formatter"
	"github.com/windoze95/recipe-agent/internal/models"
	"github.com/windoze95/recipe-agent/internal/recipes"
	"github.com/windoze95/recipe-agent/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testPrompts() *config.Prompts {
	return &config.Prompts{Agent: config.AgentPrompts{Parse: config.PromptPair{
		System: "Extract recipe filters as JSON.",
		User:   "{{.Prompt}}",
	}}}
}

func setupChatRouter(apiKey string, completions []string, found []models.Recipe) (*gin.Engine, *testutil.MockCompletionProvider, *testutil.MockRecipeSource) {
	provider := &testutil.MockCompletionProvider{CompleteFunc: testutil.SequenceCompletions(completions...)}
	source := &testutil.MockRecipeSource{FetchRecipesFunc: func(ctx context.Context, params recipes.SearchParams) ([]models.Recipe, error) {
		return found, nil
	}}
	runner := agent.NewRunner(apiKey, agent.NewQueryParser(provider, testPrompts()), formatter.NewMarkdown(),
		func(string) recipes.Source { return source }, 0)

	r := gin.New()
	r.POST("/v1/chat", NewChatHandler(runner).Chat)
	return r, provider, source
}

func postChat(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, ChatResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp ChatResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestChat_ReturnsRecipes(t *testing.T) {
	r, provider, source := setupChatRouter("spoon-key", []string{testutil.TestFiltersJSON}, testutil.TestRecipes(2))

	w, resp := postChat(t, r, `{"messages":[{"role":"assistant","content":"Hi!"},{"role":"user","content":"american pancakes"}]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, resp.Replies, 4)
	assert.Equal(t, agent.ReplyPreparing, resp.Replies[0])
	assert.Equal(t, "Found 2 recipes for you", resp.Replies[1])
	assert.Contains(t, resp.Replies[2], "### Recipe 1")
	assert.Contains(t, resp.Replies[3], "### Recipe 2")
	assert.False(t, resp.AwaitingInput)
	assert.Equal(t, 1, provider.Calls())
	assert.Equal(t, 1, source.Calls())
}

func TestChat_CapabilityQuestion(t *testing.T) {
	r, _, source := setupChatRouter("spoon-key", []string{testutil.TestCapabilityJSON}, nil)

	w, resp := postChat(t, r, `{"messages":[{"role":"user","content":"what can you do?"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"I help you find personalized recipes to cook at home."}, resp.Replies)
	assert.Equal(t, 0, source.Calls())
}

func TestChat_LastMessageNotFromUser(t *testing.T) {
	r, provider, _ := setupChatRouter("spoon-key", []string{testutil.TestFiltersJSON}, nil)

	w, resp := postChat(t, r, `{"messages":[{"role":"user","content":"soup"},{"role":"assistant","content":"Found 0 recipes"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Replies)
	assert.True(t, resp.AwaitingInput)
	assert.Equal(t, 0, provider.Calls())
}

func TestChat_EmptyConversation(t *testing.T) {
	r, _, _ := setupChatRouter("spoon-key", []string{testutil.TestFiltersJSON}, nil)

	w, resp := postChat(t, r, `{"messages":[]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{}, resp.Replies)
	assert.True(t, resp.AwaitingInput)
}

func TestChat_MissingAPIKey(t *testing.T) {
	r, provider, _ := setupChatRouter("", []string{testutil.TestFiltersJSON}, nil)

	w, resp := postChat(t, r, `{"messages":[{"role":"user","content":"soup"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{agent.ReplyConfigIncomplete}, resp.Replies)
	assert.Equal(t, 0, provider.Calls())
}

func TestChat_InvalidBody(t *testing.T) {
	r, _, _ := setupChatRouter("spoon-key", []string{testutil.TestFiltersJSON}, nil)

	for _, body := range []string{`not json`, `{}`, `{"messages":"soup"}`} {
		w, _ := postChat(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}
