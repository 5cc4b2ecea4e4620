package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/zap"

	"github.com/liliang-cn/closedrag/internal/api"
	"github.com/liliang-cn/closedrag/internal/config"
	"github.com/liliang-cn/closedrag/internal/identity"
	"github.com/liliang-cn/closedrag/internal/llm"
	"github.com/liliang-cn/closedrag/internal/logger"
	"github.com/liliang-cn/closedrag/internal/search"
	"github.com/liliang-cn/closedrag/internal/service"
	"github.com/liliang-cn/closedrag/web"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	check      = flag.Bool("check", false, "Check connectivity to the search index and completion deployment, then exit")
)

// upstreams are the clients built once at startup and shared by every request
type upstreams struct {
	credential azcore.TokenCredential
	retriever  search.Client
	generator  *llm.AzureOpenAIGenerator
}

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	var chatService *service.ChatService
	if cfg.IsFull() {
		up, err := newUpstreams(cfg)
		if err != nil {
			zl.Fatal("Failed to initialize upstream clients", zap.Error(err))
		}

		if *check {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := runCheck(ctx, cfg, up, zl); err != nil {
				zl.Fatal("Connectivity check failed", zap.Error(err))
			}
			return
		}

		chatService = service.NewChatService(up.retriever, up.generator, cfg.Search.TopK, zl)
	} else if *check {
		zl.Fatal("Connectivity check requires full mode")
	}

	// Setup router
	router := api.SetupRouter(chatService, zl, api.RouterConfig{
		FullMode:     cfg.IsFull(),
		StaticFS:     staticFS(cfg),
		AllowOrigins: cfg.Server.AllowOrigins,
		MetricsKey:   cfg.Server.MetricsKey,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zl.Info("Starting closedrag server",
			zap.String("address", cfg.Address()),
			zap.String("mode", cfg.Server.Mode),
			zap.String("search_backend", cfg.Search.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zl.Info("Server exited")
}

// newUpstreams builds the search and completion clients. The token credential is only
// created when one of them has no key configured.
func newUpstreams(cfg *config.Config) (*upstreams, error) {
	up := &upstreams{}

	needsCredential := cfg.LLM.APIKey == "" ||
		(cfg.Search.Backend == config.BackendAzure && cfg.Search.Key == "")
	if needsCredential {
		cred, err := identity.NewCredential()
		if err != nil {
			return nil, err
		}
		up.credential = cred
	}

	retriever, err := search.New(cfg.Search, up.credential)
	if err != nil {
		return nil, err
	}
	up.retriever = retriever

	generator, err := llm.NewAzureOpenAIGenerator(llm.AzureOpenAIOptions{
		Endpoint:   cfg.LLM.Endpoint,
		Deployment: cfg.LLM.Deployment,
		APIVersion: cfg.LLM.APIVersion,
		APIKey:     cfg.LLM.APIKey,
		Credential: up.credential,
	})
	if err != nil {
		return nil, err
	}
	up.generator = generator

	return up, nil
}

// staticFS serves assets from STATIC_DIR when set, otherwise the embedded copy
func staticFS(cfg *config.Config) fs.FS {
	if cfg.Server.StaticDir != "" {
		return os.DirFS(cfg.Server.StaticDir)
	}
	return web.Static()
}
