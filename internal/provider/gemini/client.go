// Package gemini implements the Google Gemini generateContent provider.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Generation settings sent with every request.
const (
	temperature     = 0.7
	maxOutputTokens = 2048
)

// apiKeyHeader carries the credential so it never appears in a URL or a
// transport error message.
const apiKeyHeader = "x-goog-api-key"

// Provider implements types.Provider for the Gemini API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Gemini provider rooted at baseURL
// (e.g. https://generativelanguage.googleapis.com/v1beta).
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Name returns the provider display name
func (p *Provider) Name() string {
	return "Gemini"
}

// BaseURL returns the Gemini API root
func (p *Provider) BaseURL() string {
	return p.baseURL
}

// Complete sends the flattened conversation to generateContent and returns the
// first candidate's text.
func (p *Provider) Complete(ctx context.Context, req *types.CompletionRequest) (string, error) {
	payload, err := json.Marshal(buildRequest(req.Messages))
	if err != nil {
		return "", types.ErrServer(fmt.Errorf("marshal gemini request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", types.ErrServer(fmt.Errorf("create gemini request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, req.APIKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", types.ErrTransport(err, req.APIKey)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.ErrTransport(err, req.APIKey)
	}

	var data generateResponse
	decodeErr := json.Unmarshal(body, &data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Error("gemini api error",
			"status", resp.StatusCode,
			"model", req.Model,
			"body", types.Redact(string(body), req.APIKey),
		)
		message := "Unknown error"
		if decodeErr == nil && data.Error != nil && data.Error.Message != "" {
			message = data.Error.Message
		}
		return "", types.ErrUpstream(resp.StatusCode, "Gemini error: "+message)
	}

	if decodeErr != nil {
		p.logger.Error("invalid gemini response", "model", req.Model, "error", decodeErr)
		return "", types.ErrInvalidUpstreamResponse(p.Name(), decodeErr)
	}

	text, err := data.replyText()
	if err != nil {
		p.logger.Error("invalid gemini response", "model", req.Model, "error", err)
		return "", types.ErrInvalidUpstreamResponse(p.Name(), err)
	}
	return text, nil
}

// buildRequest flattens the role-annotated history into a single text part.
func buildRequest(messages []types.Message) generateRequest {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Role+": "+m.Content.String())
	}

	return generateRequest{
		Contents: []content{{
			Parts: []part{{Text: strings.Join(lines, "\n")}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	}
}

var errNoCandidate = errors.New("response has no candidate content")

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (r *generateResponse) replyText() (string, error) {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil || len(r.Candidates[0].Content.Parts) == 0 {
		return "", errNoCandidate
	}
	return r.Candidates[0].Content.Parts[0].Text, nil
}
