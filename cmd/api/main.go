package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/windoze95/recipe-agent/internal/config"
	"github.com/windoze95/recipe-agent/internal/logger"
	"github.com/windoze95/recipe-agent/internal/router"
	"github.com/windoze95/recipe-agent/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const serviceName = "recipe-agent"

// init is called before the main function.
func init() {
	// Initialize structured logger (dev mode unless gin runs in release mode)
	mode, isDev := resolveMode(os.Getenv(gin.EnvGinMode))
	gin.SetMode(mode)
	logger.Init(isDev)

	// Configure the runtime
	ConfigureRuntime()
}

// Entry point for the API.
func main() {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the config
	var cfg *config.Config
	if c, err := config.LoadConfig(); err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	} else {
		cfg = c
	}

	// Check that all ENV variables are set
	if err := cfg.CheckConfigEnvFields(); err != nil {
		logger.Get().Fatal("missing required config fields", zap.Error(err))
	}
	if err := cfg.CheckProviderKey(); err != nil {
		logger.Get().Fatal("invalid LLM provider config", zap.Error(err))
	}
	if cfg.EnvVars.SpoonacularAPIKey == "" {
		logger.Get().Warn("SPOONACULAR_API_KEY is not set, recipe searches will be refused")
	}

	// Load prompts from YAML
	prompts, err := config.LoadPrompts(cfg.EnvVars.PromptsPath)
	if err != nil {
		logger.Get().Fatal("failed to load prompts", zap.Error(err))
	}
	cfg.Prompts = prompts

	// Initialize tracing
	shutdown, err := telemetry.Init(ctx, serviceName, cfg.EnvVars.OTLPEndpoint)
	if err != nil {
		logger.Get().Warn("failed to init telemetry", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Get().Warn("failed to flush telemetry", zap.Error(err))
			}
		}()
	}

	// Create a new gin router
	r, err := router.SetupRouter(cfg)
	if err != nil {
		logger.Get().Fatal("failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr: ":" + cfg.EnvVars.Port,
		Handler: otelhttp.NewHandler(r, "http.request",
			otelhttp.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/ping"
			}),
		),
	}

	go func() {
		<-ctx.Done()
		logger.Get().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Get().Error("server shutdown failed", zap.Error(err))
		}
	}()

	// Run the server
	logger.Get().Info("starting server", zap.String("port", cfg.EnvVars.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Get().Fatal("server failed", zap.Error(err))
	}
}

// resolveMode returns the gin mode for the GIN_MODE value and whether the
// logger should run in development mode. An unset value means release.
func resolveMode(value string) (string, bool) {
	mode := value
	if mode == "" {
		mode = gin.ReleaseMode
	}
	return mode, mode != gin.ReleaseMode
}

// ConfigureRuntime sets the number of operating system threads.
func ConfigureRuntime() {
	nuCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(nuCPU)
	logger.Get().Info("runtime configured", zap.Int("cpus", nuCPU))
}
