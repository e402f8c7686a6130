package handler

import (
	"log/slog"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/proxy"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Proxy *proxy.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
// tok may be nil to skip prompt token estimates.
func NewRepo(router *provider.Router, tok tokenizer.Tokenizer, logger *slog.Logger) *Repo {
	return &Repo{
		Proxy: proxy.New(router, router.Credentials(), tok, logger),
		Infra: infra.New(router.Credentials(), time.Now()),
	}
}
