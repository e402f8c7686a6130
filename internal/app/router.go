package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware/ratelimit"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger  *slog.Logger
	Limiter *ratelimit.Limiter // nil disables rate limiting
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	if opts == nil {
		opts = &RouterOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	// The chat handler answers OPTIONS and 405 itself, so it takes every method.
	mux.HandleFunc("/api/chat", repo.Proxy.Chat)
	mux.HandleFunc("GET /api/models", repo.Proxy.ListModels)
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)
	mux.HandleFunc("GET /{$}", repo.Infra.RootStatus)

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux
	h = middleware.Recover(logger)(h)
	if opts.Limiter != nil {
		h = ratelimit.Middleware(opts.Limiter)(h)
	}
	h = middleware.RequestLogger(logger)(h)
	h = middleware.RequestID(h)

	// CORS (always applied, browser clients call cross-origin)
	h = middleware.CORS(h)

	return h
}
