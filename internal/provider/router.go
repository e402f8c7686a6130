package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Router relays a chat request to the provider selected by its model key.
// It holds no per-request state and is safe for concurrent use.
type Router struct {
	providers map[Family]types.Provider
	creds     *CredentialResolver
	logger    *slog.Logger
}

// NewRouter creates a Router over the given providers and credentials.
func NewRouter(providers map[Family]types.Provider, creds *CredentialResolver, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		providers: providers,
		creds:     creds,
		logger:    logger,
	}
}

// Complete resolves the model key and credential, then performs exactly one
// upstream call. Errors are *types.Error values ready for serialization.
func (r *Router) Complete(ctx context.Context, req *types.ChatRequest, referer string) (*types.RelayResult, error) {
	route, err := Resolve(req.Model)
	if err != nil {
		return nil, err
	}

	prov, ok := r.providers[route.Family]
	if !ok {
		return nil, types.ErrServer(fmt.Errorf("no provider registered for family %q", route.Family))
	}

	apiKey, err := r.creds.Resolve(route.Family)
	if err != nil {
		r.logger.Warn("credential missing", "family", route.Family, "model", req.Model)
		return nil, err
	}

	start := time.Now()
	reply, err := prov.Complete(ctx, &types.CompletionRequest{
		Model:    route.UpstreamModel,
		Messages: req.Messages,
		APIKey:   apiKey,
		Referer:  referer,
	})
	if err != nil {
		return nil, err
	}

	return &types.RelayResult{
		Reply:         reply,
		Provider:      prov.Name(),
		UpstreamModel: route.UpstreamModel,
		Duration:      time.Since(start),
	}, nil
}

// Credentials returns the resolver, for reporting which families are configured.
func (r *Router) Credentials() *CredentialResolver {
	return r.creds
}
