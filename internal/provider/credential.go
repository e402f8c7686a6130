package provider

import "github.com/mandalnilabja/chatrelay/internal/types"

// CredentialResolver returns the server-held secret for a provider family.
// Secrets are fixed at startup; a missing one only disables its own family.
type CredentialResolver struct {
	secrets map[Family]string
	names   map[Family]string
}

// NewCredentialResolver creates a resolver over the given secrets.
func NewCredentialResolver(geminiKey, openRouterKey string) *CredentialResolver {
	return &CredentialResolver{
		secrets: map[Family]string{
			FamilyGemini:     geminiKey,
			FamilyOpenRouter: openRouterKey,
		},
		names: map[Family]string{
			FamilyGemini:     "Gemini",
			FamilyOpenRouter: "OpenRouter",
		},
	}
}

// Resolve returns the secret for family or a MissingCredential error.
func (r *CredentialResolver) Resolve(family Family) (string, error) {
	if key := r.secrets[family]; key != "" {
		return key, nil
	}
	name := r.names[family]
	if name == "" {
		name = string(family)
	}
	return "", types.ErrMissingCredential(name)
}

// Configured reports whether family has a secret.
func (r *CredentialResolver) Configured(family Family) bool {
	return r.secrets[family] != ""
}
