package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipe-agent/internal/agent"
	"github.com/windoze95/recipe-agent/internal/ai"
	"github.com/windoze95/recipe-agent/internal/config"
	"github.com/windoze95/recipe-agent/internal/formatter"
	"github.com/windoze95/recipe-agent/internal/handlers"
	"github.com/windoze95/recipe-agent/internal/logger"
	"github.com/windoze95/recipe-agent/internal/middleware"
	"github.com/windoze95/recipe-agent/internal/recipes"
	"github.com/windoze95/recipe-agent/internal/ws"
)

// SetupRouter sets up the Gin router with a completion provider built from
// the config.
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	provider, err := ai.NewCompletionProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewRouter(cfg, provider), nil
}

// NewRouter builds the Gin router around the given completion provider.
func NewRouter(cfg *config.Config, provider ai.CompletionProvider) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowOrigins = cfg.EnvVars.AllowedOrigins
	corsConfig.AddAllowHeaders("Authorization", logger.RequestIDHeader)
	corsConfig.AddExposeHeaders(logger.RequestIDHeader)
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Agent setup
	parser := agent.NewQueryParser(provider, cfg.Prompts)
	newSource := func(apiKey string) recipes.Source {
		return recipes.NewSpoonacularSource(apiKey, cfg.EnvVars.SpoonacularURL, cfg.EnvVars.SearchTimeout)
	}
	runner := agent.NewRunner(cfg.EnvVars.SpoonacularAPIKey, parser, formatter.NewMarkdown(), newSource, cfg.EnvVars.RequestTimeout)

	chatHandler := handlers.NewChatHandler(runner)

	hub := ws.NewHub()
	go hub.Run()
	wsHandler := ws.NewChatHandler(hub, runner, cfg.EnvVars.AllowedOrigins)

	// Token verification is enabled only when a signing secret is configured
	api := r.Group("/v1")
	if cfg.EnvVars.JwtSecretKey != "" {
		api.Use(middleware.VerifyTokenMiddleware(cfg.EnvVars.JwtSecretKey))
	}
	{
		// Handle the last message of a conversation
		api.POST("/chat", chatHandler.Chat)
		// Chat over a websocket, one message at a time
		api.GET("/ws/chat", wsHandler.HandleChatSession)
	}

	return r
}
