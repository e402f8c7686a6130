package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/types"
	"github.com/mandalnilabja/chatrelay/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	types.WriteJSON(w, http.StatusOK, map[string]any{
		"name":    "chatrelay",
		"version": version.Version,
		"status":  "running",
		"chat":    "/api/chat",
		"models":  "/api/models",
	})
}

// HealthCheck reports liveness, uptime and which provider families can serve requests.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	types.WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "active",
		"app":            "chatrelay",
		"uptime_seconds": int64(time.Since(h.StartTime).Seconds()),
		"providers": map[string]bool{
			string(provider.FamilyGemini):     h.Creds.Configured(provider.FamilyGemini),
			string(provider.FamilyOpenRouter): h.Creds.Configured(provider.FamilyOpenRouter),
		},
	})
}
