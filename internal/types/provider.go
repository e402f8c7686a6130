package types

import (
	"context"
	"time"
)

// Provider is an upstream LLM API that turns a conversation into one reply.
type Provider interface {
	// Name returns the provider's display name, used in error messages
	Name() string

	// BaseURL returns the provider's API root
	BaseURL() string

	// Complete performs exactly one upstream call and returns the reply text.
	// Failures are returned as *Error values.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// CompletionRequest is a routed request ready to be sent upstream.
type CompletionRequest struct {
	// Model is the upstream's own model identifier
	Model string

	// Messages is the role-annotated history, oldest first
	Messages []Message

	// APIKey is the server-held credential for the provider
	APIKey string

	// Referer is the caller's Referer header, if any
	Referer string
}

// RelayResult describes one relayed chat turn.
type RelayResult struct {
	Reply         string
	Provider      string
	UpstreamModel string
	Duration      time.Duration
}
