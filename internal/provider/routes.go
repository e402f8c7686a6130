package provider

import "github.com/mandalnilabja/chatrelay/internal/types"

// Family identifies an upstream provider family. Each family has its own
// credential and wire format.
type Family string

// Provider families
const (
	FamilyGemini     Family = "gemini"
	FamilyOpenRouter Family = "openrouter"
)

// Route maps a client-facing model key to an upstream model.
type Route struct {
	Key           string `json:"key"`
	Family        Family `json:"family"`
	UpstreamModel string `json:"upstream_model"`
}

// routeTable is the fixed model key table, in display order.
// gemini-pro intentionally shares the experimental flash model.
var routeTable = []Route{
	{Key: "gemini-flash", Family: FamilyGemini, UpstreamModel: "gemini-2.0-flash-latest"},
	{Key: "gemini-flash-exp", Family: FamilyGemini, UpstreamModel: "gemini-2.0-flash-exp"},
	{Key: "gemini-pro", Family: FamilyGemini, UpstreamModel: "gemini-2.0-flash-exp"},
	{Key: "deepseek", Family: FamilyOpenRouter, UpstreamModel: "deepseek/deepseek-chat-v3.1:free"},
	{Key: "dolphin", Family: FamilyOpenRouter, UpstreamModel: "cognitivecomputations/dolphin-mistral-24b-venice-edition:free"},
	{Key: "deepcoder", Family: FamilyOpenRouter, UpstreamModel: "agentica-org/deepcoder-14b-preview:free"},
	{Key: "mai-ds", Family: FamilyOpenRouter, UpstreamModel: "microsoft/mai-ds-r1:free"},
	{Key: "hermes", Family: FamilyOpenRouter, UpstreamModel: "nousresearch/hermes-3-llama-3.1-405b:free"},
}

// routeIndex is built once for O(1) lookup.
var routeIndex = func() map[string]Route {
	idx := make(map[string]Route, len(routeTable))
	for _, r := range routeTable {
		idx[r.Key] = r
	}
	return idx
}()

// Routes returns a copy of the model table in display order.
func Routes() []Route {
	out := make([]Route, len(routeTable))
	copy(out, routeTable)
	return out
}

// Resolve returns the route for a model key.
func Resolve(key string) (Route, error) {
	route, ok := routeIndex[key]
	if !ok {
		return Route{}, types.ErrUnknownModel(key)
	}
	return route, nil
}
