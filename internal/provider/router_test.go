package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// mockProvider implements types.Provider for testing.
type mockProvider struct {
	name    string
	reply   string
	err     error
	calls   int
	lastReq *types.CompletionRequest
}

func (m *mockProvider) Name() string    { return m.name }
func (m *mockProvider) BaseURL() string { return "https://mock.test" }
func (m *mockProvider) Complete(ctx context.Context, req *types.CompletionRequest) (string, error) {
	m.calls++
	m.lastReq = req
	return m.reply, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve_AllKeys(t *testing.T) {
	tests := []struct {
		key      string
		family   Family
		upstream string
	}{
		{"gemini-flash", FamilyGemini, "gemini-2.0-flash-latest"},
		{"gemini-flash-exp", FamilyGemini, "gemini-2.0-flash-exp"},
		{"gemini-pro", FamilyGemini, "gemini-2.0-flash-exp"},
		{"deepseek", FamilyOpenRouter, "deepseek/deepseek-chat-v3.1:free"},
		{"dolphin", FamilyOpenRouter, "cognitivecomputations/dolphin-mistral-24b-venice-edition:free"},
		{"deepcoder", FamilyOpenRouter, "agentica-org/deepcoder-14b-preview:free"},
		{"mai-ds", FamilyOpenRouter, "microsoft/mai-ds-r1:free"},
		{"hermes", FamilyOpenRouter, "nousresearch/hermes-3-llama-3.1-405b:free"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			route, err := Resolve(tt.key)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if route.Family != tt.family {
				t.Errorf("expected family %q, got %q", tt.family, route.Family)
			}
			if route.UpstreamModel != tt.upstream {
				t.Errorf("expected upstream %q, got %q", tt.upstream, route.UpstreamModel)
			}
		})
	}

	if len(Routes()) != len(tests) {
		t.Errorf("expected %d routes, got %d", len(tests), len(Routes()))
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Resolve("gpt-9")
	var e *types.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *types.Error, got %v", err)
	}
	if e.Kind != types.KindUnknownModel || e.Status != http.StatusBadRequest {
		t.Errorf("unexpected error %s/%d", e.Kind, e.Status)
	}
	if e.Message != "Unknown model: gpt-9" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestRoutes_ReturnsCopy(t *testing.T) {
	routes := Routes()
	routes[0].UpstreamModel = "tampered"
	if r, _ := Resolve(routes[0].Key); r.UpstreamModel == "tampered" {
		t.Error("Routes must not expose the shared table")
	}
}

func TestRouter_DelegatesToFamily(t *testing.T) {
	gem := &mockProvider{name: "Gemini", reply: "from gemini"}
	or := &mockProvider{name: "OpenRouter", reply: "from openrouter"}
	router := NewRouter(map[Family]types.Provider{
		FamilyGemini:     gem,
		FamilyOpenRouter: or,
	}, NewCredentialResolver("g-key", "or-key"), discardLogger())

	req := &types.ChatRequest{
		Model:    "gemini-pro",
		Messages: []types.Message{types.NewTextMessage(types.RoleUser, "hi")},
	}
	result, err := router.Complete(context.Background(), req, "https://caller.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reply != "from gemini" {
		t.Errorf("expected gemini reply, got %q", result.Reply)
	}
	if gem.lastReq.Model != "gemini-2.0-flash-exp" {
		t.Errorf("expected upstream model 'gemini-2.0-flash-exp', got %q", gem.lastReq.Model)
	}
	if gem.lastReq.APIKey != "g-key" {
		t.Errorf("expected gemini credential, got %q", gem.lastReq.APIKey)
	}
	if gem.lastReq.Referer != "https://caller.test" {
		t.Errorf("expected referer to be passed through, got %q", gem.lastReq.Referer)
	}
	if or.calls != 0 {
		t.Errorf("expected no OpenRouter calls, got %d", or.calls)
	}
}

func TestRouter_MissingCredentialOnlyAffectsItsFamily(t *testing.T) {
	gem := &mockProvider{name: "Gemini", reply: "ok"}
	or := &mockProvider{name: "OpenRouter", reply: "ok"}
	router := NewRouter(map[Family]types.Provider{
		FamilyGemini:     gem,
		FamilyOpenRouter: or,
	}, NewCredentialResolver("", "or-key"), discardLogger())

	_, err := router.Complete(context.Background(), &types.ChatRequest{Model: "gemini-flash"}, "")
	if !errors.Is(err, &types.Error{Kind: types.KindMissingCredential}) {
		t.Fatalf("expected MissingCredential, got %v", err)
	}
	if gem.calls != 0 {
		t.Error("provider must not be called without a credential")
	}

	if _, err := router.Complete(context.Background(), &types.ChatRequest{Model: "deepseek"}, ""); err != nil {
		t.Errorf("expected OpenRouter family to keep working, got %v", err)
	}
}

func TestRouter_UnknownModelNoUpstreamCall(t *testing.T) {
	or := &mockProvider{name: "OpenRouter"}
	router := NewRouter(map[Family]types.Provider{FamilyOpenRouter: or}, NewCredentialResolver("", "k"), discardLogger())

	_, err := router.Complete(context.Background(), &types.ChatRequest{Model: "unknown"}, "")
	if !errors.Is(err, &types.Error{Kind: types.KindUnknownModel}) {
		t.Fatalf("expected UnknownModel, got %v", err)
	}
	if or.calls != 0 {
		t.Error("expected no upstream call")
	}
}

func TestRouter_UnknownModelBeforeCredentialCheck(t *testing.T) {
	or := &mockProvider{name: "OpenRouter"}
	router := NewRouter(map[Family]types.Provider{FamilyOpenRouter: or}, NewCredentialResolver("", ""), discardLogger())

	_, err := router.Complete(context.Background(), &types.ChatRequest{Model: "gpt-9"}, "")
	if !errors.Is(err, &types.Error{Kind: types.KindUnknownModel}) {
		t.Fatalf("expected UnknownModel even with no keys configured, got %v", err)
	}
	if or.calls != 0 {
		t.Error("expected no upstream call")
	}
}

func TestRouter_PropagatesProviderError(t *testing.T) {
	upstreamErr := types.ErrUpstream(http.StatusTooManyRequests, "OpenRouter error: rate limited")
	or := &mockProvider{name: "OpenRouter", err: upstreamErr}
	router := NewRouter(map[Family]types.Provider{FamilyOpenRouter: or}, NewCredentialResolver("", "k"), discardLogger())

	_, err := router.Complete(context.Background(), &types.ChatRequest{Model: "hermes"}, "")
	if err != upstreamErr {
		t.Errorf("expected provider error to be returned unchanged, got %v", err)
	}
	if or.calls != 1 {
		t.Errorf("expected exactly one upstream call, got %d", or.calls)
	}
}

func TestCredentialResolver(t *testing.T) {
	creds := NewCredentialResolver("g", "")
	if !creds.Configured(FamilyGemini) || creds.Configured(FamilyOpenRouter) {
		t.Error("unexpected Configured result")
	}

	_, err := creds.Resolve(FamilyOpenRouter)
	var e *types.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *types.Error, got %v", err)
	}
	if e.Status != http.StatusInternalServerError || e.Message != "OpenRouter API key not configured" {
		t.Errorf("unexpected error %d %q", e.Status, e.Message)
	}
}
