package infra

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/version"
)

func TestHealthCheck(t *testing.T) {
	h := New(provider.NewCredentialResolver("g-key", ""), time.Now().Add(-90*time.Second))

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Status        string          `json:"status"`
		UptimeSeconds int64           `json:"uptime_seconds"`
		Providers     map[string]bool `json:"providers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != "active" {
		t.Errorf("expected status active, got %q", body.Status)
	}
	if body.UptimeSeconds < 90 {
		t.Errorf("expected uptime >= 90, got %d", body.UptimeSeconds)
	}
	if !body.Providers["gemini"] || body.Providers["openrouter"] {
		t.Errorf("unexpected providers %v", body.Providers)
	}
}

func TestRootStatus(t *testing.T) {
	h := New(provider.NewCredentialResolver("", ""), time.Now())

	rec := httptest.NewRecorder()
	h.RootStatus(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["version"] != version.Version {
		t.Errorf("expected version %q, got %q", version.Version, body["version"])
	}
	if body["chat"] != "/api/chat" {
		t.Errorf("unexpected chat path %q", body["chat"])
	}
}
