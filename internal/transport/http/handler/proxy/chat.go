package proxy

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// tokenCountTimeout is the maximum time to wait for token counting after the relay returns.
const tokenCountTimeout = 100 * time.Millisecond

// Chat handles /api/chat: one POST relays one conversation turn upstream and
// answers {"message"} or {"error"}.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	default:
		types.WriteError(w, types.ErrMethodNotAllowed())
		return
	}

	requestID := middleware.GetRequestID(r.Context())

	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			types.WriteError(w, types.ErrBodyTooLarge(err))
			return
		}
		types.WriteError(w, types.ErrInvalidInput("Invalid messages format", err))
		return
	}

	req, err := types.ParseChatRequest(bodyBytes)
	if err != nil {
		h.Logger.Warn("invalid chat request", "request_id", requestID, "error", err)
		types.WriteError(w, err)
		return
	}

	// Token counting runs alongside the upstream call; it only feeds the log line.
	tokensChan := make(chan int, 1)
	go func() {
		defer close(tokensChan)
		if h.Tokenizer == nil {
			return
		}
		if tokens, err := h.Tokenizer.CountMessages(req.Messages, req.Model); err == nil {
			tokensChan <- tokens
		}
	}()

	result, err := h.Relay.Complete(r.Context(), req, r.Referer())

	var promptTokens int
	select {
	case tokens, ok := <-tokensChan:
		if ok {
			promptTokens = tokens
		}
	case <-time.After(tokenCountTimeout):
	}

	if err != nil {
		e := types.AsError(err)
		h.Logger.Error("chat relay failed",
			"request_id", requestID,
			"model", req.Model,
			"kind", e.Kind,
			"status", e.Status,
			"error", e.Error(),
		)
		types.WriteError(w, e)
		return
	}

	h.Logger.Info("chat relayed",
		"request_id", requestID,
		"model", req.Model,
		"provider", result.Provider,
		"upstream_model", result.UpstreamModel,
		"messages", len(req.Messages),
		"prompt_tokens", promptTokens,
		"duration_ms", result.Duration.Milliseconds(),
	)
	types.WriteJSON(w, http.StatusOK, types.ChatResponse{Message: result.Reply})
}
