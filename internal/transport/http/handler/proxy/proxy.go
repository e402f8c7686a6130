// Package proxy implements the chat relay endpoints.
package proxy

import (
	"context"
	"log/slog"

	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// maxBodyBytes bounds a chat request; attachments travel inline as data URLs.
const maxBodyBytes = 8 << 20

// Relay forwards one chat turn upstream.
type Relay interface {
	Complete(ctx context.Context, req *types.ChatRequest, referer string) (*types.RelayResult, error)
}

// CredentialChecker reports which provider families have a secret configured.
type CredentialChecker interface {
	Configured(family provider.Family) bool
}

// Handlers holds the dependencies for relay HTTP handlers.
type Handlers struct {
	Relay     Relay
	Creds     CredentialChecker
	Tokenizer tokenizer.Tokenizer
	Logger    *slog.Logger
}

// New creates a new instance of relay handlers.
func New(relay Relay, creds CredentialChecker, tok tokenizer.Tokenizer, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Relay:     relay,
		Creds:     creds,
		Tokenizer: tok,
		Logger:    logger,
	}
}
