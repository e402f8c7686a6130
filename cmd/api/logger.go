package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/version"
)

func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "chatrelay %s - Gemini / OpenRouter chat relay\n", version.Version)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Chat API:   http://localhost%s/api/chat\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Models:     http://localhost%s/api/models\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Config:     %s\n", config.ConfigPath())
	if !cfg.HasGeminiKey() {
		fmt.Fprintln(os.Stderr, "Warning:    GEMINI_API_KEY not set, gemini-* models will fail")
	}
	if !cfg.HasOpenRouterKey() {
		fmt.Fprintln(os.Stderr, "Warning:    OPENROUTER_API_KEY not set, OpenRouter models will fail")
	}
	if cfg.RateLimitPerMinute > 0 {
		fmt.Fprintf(os.Stderr, "Rate limit: %d requests/minute per client\n", cfg.RateLimitPerMinute)
	}
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}
