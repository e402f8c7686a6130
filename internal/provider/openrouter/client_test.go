package openrouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, Options{Referer: "https://default.test", Title: "Test Chat"},
		srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testRequest(referer string) *types.CompletionRequest {
	return &types.CompletionRequest{
		Model:    "deepseek/deepseek-chat-v3.1:free",
		APIKey:   "or-secret",
		Referer:  referer,
		Messages: []types.Message{types.NewTextMessage(types.RoleUser, "hi")},
	}
}

func TestComplete_Success(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]any
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"model":"deepseek","choices":[{"message":{"role":"assistant","content":"canned"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`))
	})

	reply, err := p.Complete(context.Background(), testRequest(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "canned" {
		t.Errorf("expected 'canned', got %q", reply)
	}

	if got := gotHeaders.Get("Authorization"); got != "Bearer or-secret" {
		t.Errorf("unexpected Authorization %q", got)
	}
	if got := gotHeaders.Get("HTTP-Referer"); got != "https://default.test" {
		t.Errorf("expected default referer, got %q", got)
	}
	if got := gotHeaders.Get("X-Title"); got != "Test Chat" {
		t.Errorf("unexpected X-Title %q", got)
	}

	if gotBody["model"] != "deepseek/deepseek-chat-v3.1:free" {
		t.Errorf("unexpected model %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(2000) || gotBody["temperature"] != 0.7 {
		t.Errorf("unexpected sampling params %v %v", gotBody["max_tokens"], gotBody["temperature"])
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("expected structured messages, got %v", gotBody["messages"])
	}
	first := msgs[0].(map[string]any)
	if first["role"] != "user" || first["content"] != "hi" {
		t.Errorf("unexpected message %v", first)
	}
}

func TestComplete_CallerReferer(t *testing.T) {
	var referer string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	if _, err := p.Complete(context.Background(), testRequest("https://caller.test/page")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if referer != "https://caller.test/page" {
		t.Errorf("expected caller referer, got %q", referer)
	}
}

func TestComplete_ErrorShapes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"nested error", http.StatusTooManyRequests, `{"error":{"message":"Rate limit exceeded","code":429}}`, "OpenRouter error: Rate limit exceeded"},
		{"flat message", http.StatusUnauthorized, `{"message":"No auth credentials found"}`, "OpenRouter error: No auth credentials found"},
		{"no message", http.StatusInternalServerError, `{}`, "OpenRouter error: Unknown error"},
		{"not json", http.StatusServiceUnavailable, `upstream down`, "OpenRouter error: Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Complete(context.Background(), testRequest(""))
			e := types.AsError(err)
			if e.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, e.Status)
			}
			if e.Message != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, e.Message)
			}
		})
	}
}

func TestComplete_MissingChoice(t *testing.T) {
	for _, body := range []string{`{"choices":[]}`, `{"choices":[{"finish_reason":"stop"}]}`, `{}`} {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		_, err := p.Complete(context.Background(), testRequest(""))
		e := types.AsError(err)
		if e.Status != http.StatusInternalServerError || e.Message != "Invalid response from OpenRouter API" {
			t.Errorf("body %s: unexpected error %d %q", body, e.Status, e.Message)
		}
	}
}
