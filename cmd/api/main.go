package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/app"
	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware/ratelimit"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// 1. Write a commented config.toml on first run
	if err := config.EnsureConfigFile(); err != nil {
		slog.Warn("could not create config file", "path", config.ConfigPath(), "error", err)
	}

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	printStartupBanner(cfg)

	// 3. Providers share one client; each call is bounded by the inbound request context
	httpClient := &http.Client{Transport: http.DefaultTransport}
	providers := provider.NewProviders(cfg, httpClient, logger)
	creds := provider.NewCredentialResolver(cfg.GeminiAPIKey, cfg.OpenRouterAPIKey)
	relay := provider.NewRouter(providers, creds, logger)

	// 4. Handlers and router
	repo := handler.NewRepo(relay, tokenizer.New(), logger)

	opts := &app.RouterOptions{Logger: logger}
	if cfg.RateLimitPerMinute > 0 {
		limiter, err := ratelimit.New(cfg.RateLimitPerMinute)
		if err != nil {
			logger.Error("failed to create rate limiter", "error", err)
			os.Exit(1)
		}
		defer limiter.Close()
		opts.Limiter = limiter
	}

	srv := app.NewServer(cfg, app.NewRouter(repo, opts), logger)

	// 5. Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
