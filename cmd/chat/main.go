package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mandalnilabja/chatrelay/internal/chat"
	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.LoadClient()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Preferences are optional: without them the defaults apply.
	var prefs *chat.Preferences
	if err := os.MkdirAll(filepath.Dir(cfg.PreferencesPath), 0700); err != nil {
		logger.Warn("preferences disabled", "error", err)
	} else if store, err := storage.NewSQLiteStorage(cfg.PreferencesPath); err != nil {
		logger.Warn("preferences disabled", "path", cfg.PreferencesPath, "error", err)
	} else {
		defer store.Close()
		prefs = chat.NewPreferences(store)
	}

	sessions := chat.NewStore(prefs.Model(cfg.Model))
	client := chat.NewClient(cfg.RelayURL, sessions, prefs, &http.Client{}, logger)
	if cfg.HistoryTokenBudget > 0 {
		client.History.TokenBudget = cfg.HistoryTokenBudget
		client.History.Tokenizer = tokenizer.New()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := newREPL(sessions, client, prefs, os.Stdout)
	if err := r.run(ctx, os.Stdin); err != nil {
		logger.Error("chat ended", "error", err)
		os.Exit(1)
	}
}
