package provider

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/provider/gemini"
	"github.com/mandalnilabja/chatrelay/internal/provider/openrouter"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// NewProviders returns a map of all available LLM providers keyed by family.
// httpClient carries no timeout: the inbound request context bounds each call.
func NewProviders(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) map[Family]types.Provider {
	return map[Family]types.Provider{
		FamilyGemini: gemini.New(cfg.GeminiBaseURL, httpClient, logger),
		FamilyOpenRouter: openrouter.New(cfg.OpenRouterBaseURL, openrouter.Options{
			Referer: cfg.OpenRouterReferer,
			Title:   cfg.OpenRouterTitle,
		}, httpClient, logger),
	}
}
