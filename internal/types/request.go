package types

import (
	"bytes"
	"encoding/json"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
}

// ParseChatRequest decodes and validates a relay request body.
// The messages field must be present and a JSON array, the model field present and
// non-empty. Model recognition is left to the router.
func ParseChatRequest(body []byte) (*ChatRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, ErrInvalidInput("Invalid messages format", err)
	}

	rawMessages := bytes.TrimSpace(fields["messages"])
	if len(rawMessages) == 0 || rawMessages[0] != '[' {
		return nil, ErrInvalidInput("Invalid messages format", nil)
	}

	var req ChatRequest
	if err := json.Unmarshal(rawMessages, &req.Messages); err != nil {
		return nil, ErrInvalidInput("Invalid messages format", err)
	}

	rawModel := bytes.TrimSpace(fields["model"])
	if len(rawModel) == 0 || bytes.Equal(rawModel, []byte("null")) {
		return nil, ErrMissingModel()
	}
	if err := json.Unmarshal(rawModel, &req.Model); err != nil {
		// Non-string model values can never match a route.
		return nil, ErrUnknownModel(string(rawModel))
	}
	if req.Model == "" {
		return nil, ErrMissingModel()
	}

	return &req, nil
}
