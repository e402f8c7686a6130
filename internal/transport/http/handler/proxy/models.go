package proxy

import (
	"net/http"

	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// ModelInfo describes one selectable model key.
type ModelInfo struct {
	provider.Route
	Available bool `json:"available"`
}

// ModelList is the body of GET /api/models.
type ModelList struct {
	Models []ModelInfo `json:"models"`
}

// ListModels returns the fixed model table and whether each family has a credential.
func (h *Handlers) ListModels(w http.ResponseWriter, r *http.Request) {
	routes := provider.Routes()
	list := ModelList{Models: make([]ModelInfo, 0, len(routes))}
	for _, route := range routes {
		list.Models = append(list.Models, ModelInfo{
			Route:     route,
			Available: h.Creds != nil && h.Creds.Configured(route.Family),
		})
	}
	types.WriteJSON(w, http.StatusOK, list)
}
