package openrouter

import (
	"encoding/json"
	"errors"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

var errNoChoice = errors.New("response has no choice message")

type completionRequest struct {
	Model       string          `json:"model"`
	Messages    []types.Message `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

// errorResponse covers both {"error":{"message":...}} and {"message":...} shapes.
type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (e *errorResponse) text() string {
	if e.Error != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	if e.Message != "" {
		return e.Message
	}
	return "Unknown error"
}

// handleJSONResponse extracts the reply from a 2xx body.
func (p *Provider) handleJSONResponse(body []byte, req *types.CompletionRequest) (string, error) {
	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		p.logger.Error("invalid openrouter response", "model", req.Model, "error", err)
		return "", types.ErrInvalidUpstreamResponse(p.Name(), err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message == nil {
		p.logger.Error("invalid openrouter response", "model", req.Model, "error", errNoChoice)
		return "", types.ErrInvalidUpstreamResponse(p.Name(), errNoChoice)
	}

	if completion.Usage != nil {
		p.logger.Debug("openrouter usage",
			"model", completion.Model,
			"prompt_tokens", completion.Usage.PromptTokens,
			"completion_tokens", completion.Usage.CompletionTokens,
			"finish_reason", completion.Choices[0].FinishReason,
		)
	}

	return completion.Choices[0].Message.Content, nil
}

// handleErrorResponse converts a non-2xx body into an upstream error that keeps
// the upstream status code.
func (p *Provider) handleErrorResponse(status int, body []byte, req *types.CompletionRequest) error {
	p.logger.Error("openrouter api error",
		"status", status,
		"model", req.Model,
		"body", types.Redact(string(body), req.APIKey),
	)

	var apiErr errorResponse
	message := "Unknown error"
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message = apiErr.text()
	}
	return types.ErrUpstream(status, "OpenRouter error: "+message)
}
