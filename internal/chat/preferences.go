package chat

import (
	"errors"
	"strings"

	"github.com/mandalnilabja/chatrelay/internal/storage"
)

// DefaultSystemPrompt is used until the user sets one.
const DefaultSystemPrompt = "You are a helpful AI assistant."

const (
	systemPromptKey = "system_prompt"
	modelKey        = "model"
)

// Preferences is the durable part of client state. A nil store keeps
// everything at its default.
type Preferences struct {
	store storage.Storage
}

// NewPreferences creates preferences backed by store.
func NewPreferences(store storage.Storage) *Preferences {
	return &Preferences{store: store}
}

// SystemPrompt returns the saved prompt or DefaultSystemPrompt.
func (p *Preferences) SystemPrompt() string {
	if prompt := p.get(systemPromptKey); prompt != "" {
		return prompt
	}
	return DefaultSystemPrompt
}

// SetSystemPrompt saves prompt. A blank prompt restores the default.
func (p *Preferences) SetSystemPrompt(prompt string) error {
	return p.set(systemPromptKey, strings.TrimSpace(prompt))
}

// Model returns the last selected model key, or fallback.
func (p *Preferences) Model(fallback string) string {
	if model := p.get(modelKey); model != "" {
		return model
	}
	return fallback
}

// SetModel remembers the selected model key.
func (p *Preferences) SetModel(model string) error {
	return p.set(modelKey, model)
}

func (p *Preferences) get(key string) string {
	if p == nil || p.store == nil {
		return ""
	}
	value, err := p.store.GetSetting(key)
	if err != nil {
		return ""
	}
	return value
}

func (p *Preferences) set(key, value string) error {
	if p == nil || p.store == nil {
		return nil
	}
	if value == "" {
		if err := p.store.DeleteSetting(key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return nil
	}
	return p.store.SetSetting(key, value)
}
