package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windoze95/recipe-agent/internal/config"
	"github.com/windoze95/recipe-agent/internal/logger"
	"github.com/windoze95/recipe-agent/internal/testutil"
)

const testSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(secret string) *config.Config {
	return &config.Config{
		EnvVars: config.EnvVars{
			SpoonacularURL: "http://127.0.0.1:0/recipes/complexSearch",
			AllowedOrigins: []string{"https://recipes.example.com"},
			JwtSecretKey:   secret,
		},
		Prompts: &config.Prompts{Agent: config.AgentPrompts{Parse: config.PromptPair{
			System: "Extract recipe filters as JSON.",
			User:   "{{.Prompt}}",
		}}},
	}
}

func newTestRouter(secret string) (*gin.Engine, *testutil.MockCompletionProvider) {
	provider := &testutil.MockCompletionProvider{CompleteFunc: testutil.SequenceCompletions(testutil.TestCapabilityJSON)}
	return NewRouter(testConfig(secret), provider), provider
}

func accessToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestPing(t *testing.T) {
	r, _ := newTestRouter("")

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
}

func TestChatRoute_Open(t *testing.T) {
	r, provider := newTestRouter("")

	req := httptest.NewRequest("POST", "/v1/chat", strings.NewReader(`{"messages":[{"role":"user","content":"what can you do?"}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// No Spoonacular key configured, so the parser is never reached.
	assert.Contains(t, w.Body.String(), "Environment configuration isn't complete")
	assert.Equal(t, 0, provider.Calls())
}

func TestChatRoute_RequiresTokenWhenSecretSet(t *testing.T) {
	r, _ := newTestRouter(testSecret)

	body := `{"messages":[{"role":"user","content":"soup"}]}`

	req := httptest.NewRequest("POST", "/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("POST", "/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken(t, testSecret))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPing_NoTokenNeeded(t *testing.T) {
	r, _ := newTestRouter(testSecret)

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r, _ := newTestRouter("")

	req := httptest.NewRequest("OPTIONS", "/v1/chat", nil)
	req.Header.Set("Origin", "https://recipes.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://recipes.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_UnsupportedProvider(t *testing.T) {
	cfg := testConfig("")
	cfg.EnvVars.LLMProvider = "llama"

	_, err := SetupRouter(cfg)
	assert.Error(t, err)
}
