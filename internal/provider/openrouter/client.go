// Package openrouter implements the OpenRouter chat completions provider.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Sampling settings sent with every request.
const (
	temperature = 0.7
	maxTokens   = 2000
)

// Options configures the attribution headers OpenRouter expects.
type Options struct {
	// Referer is used when the caller sent no Referer header
	Referer string

	// Title is sent as X-Title
	Title string
}

// Provider implements types.Provider for OpenRouter.
// The API key is supplied per request, not stored on the provider.
type Provider struct {
	baseURL    string
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an OpenRouter provider rooted at baseURL (e.g. https://openrouter.ai/api/v1).
func New(baseURL string, opts Options, httpClient *http.Client, logger *slog.Logger) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		opts:       opts,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Name returns the provider display name
func (p *Provider) Name() string {
	return "OpenRouter"
}

// BaseURL returns the OpenRouter API root
func (p *Provider) BaseURL() string {
	return p.baseURL
}

// PrepareRequest adds OpenRouter-specific headers to the request
func (p *Provider) PrepareRequest(req *http.Request, apiKey, referer string) {
	if referer == "" {
		referer = p.opts.Referer
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", referer)
	req.Header.Set("X-Title", p.opts.Title)
}

// Complete posts the structured history to /chat/completions and returns the
// first choice's message content.
func (p *Provider) Complete(ctx context.Context, req *types.CompletionRequest) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", types.ErrServer(fmt.Errorf("marshal openrouter request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", types.ErrServer(fmt.Errorf("create openrouter request: %w", err))
	}
	p.PrepareRequest(httpReq, req.APIKey, req.Referer)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", types.ErrTransport(err, req.APIKey)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.ErrTransport(err, req.APIKey)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", p.handleErrorResponse(resp.StatusCode, body, req)
	}
	return p.handleJSONResponse(body, req)
}
