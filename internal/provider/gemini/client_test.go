package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

const testKey = "gem-secret-123"

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testRequest() *types.CompletionRequest {
	return &types.CompletionRequest{
		Model:  "gemini-2.0-flash-exp",
		APIKey: testKey,
		Messages: []types.Message{
			types.NewTextMessage(types.RoleSystem, "be nice"),
			types.NewTextMessage(types.RoleUser, "hi"),
		},
	}
}

func TestComplete_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(apiKeyHeader)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello there"}]}}]}`))
	})

	reply, err := p.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "hello there" {
		t.Errorf("expected reply 'hello there', got %q", reply)
	}
	if gotPath != "/models/gemini-2.0-flash-exp:generateContent" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotKey != testKey {
		t.Errorf("expected credential header, got %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("expected a single flattened part, got %+v", gotBody.Contents)
	}
	if text := gotBody.Contents[0].Parts[0].Text; text != "system: be nice\nuser: hi" {
		t.Errorf("unexpected flattened text %q", text)
	}
	if gotBody.GenerationConfig.MaxOutputTokens != 2048 || gotBody.GenerationConfig.Temperature != 0.7 {
		t.Errorf("unexpected generation config %+v", gotBody.GenerationConfig)
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted"}}`))
	})

	_, err := p.Complete(context.Background(), testRequest())
	var e *types.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *types.Error, got %v", err)
	}
	if e.Status != http.StatusTooManyRequests {
		t.Errorf("expected upstream status 429, got %d", e.Status)
	}
	if e.Message != "Gemini error: Resource has been exhausted" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestComplete_UpstreamErrorWithoutJSON(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := p.Complete(context.Background(), testRequest())
	e := types.AsError(err)
	if e.Status != http.StatusBadGateway || e.Message != "Gemini error: Unknown error" {
		t.Errorf("unexpected error %d %q", e.Status, e.Message)
	}
}

func TestComplete_InvalidSuccessBody(t *testing.T) {
	bodies := map[string]string{
		"no candidates": `{"candidates":[]}`,
		"no content":    `{"candidates":[{"finishReason":"SAFETY"}]}`,
		"no parts":      `{"candidates":[{"content":{"parts":[]}}]}`,
		"not json":      `not json`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := p.Complete(context.Background(), testRequest())
			e := types.AsError(err)
			if e.Status != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", e.Status)
			}
			if e.Message != "Invalid response from Gemini API" {
				t.Errorf("unexpected message %q", e.Message)
			}
		})
	}
}

func TestComplete_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := New(url, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := p.Complete(context.Background(), testRequest())
	e := types.AsError(err)
	if e.Kind != types.KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if strings.Contains(e.Message, testKey) {
		t.Errorf("credential leaked: %q", e.Message)
	}
}
