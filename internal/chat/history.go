package chat

import (
	"fmt"

	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// DefaultHistoryWindow is how many recent messages accompany each turn.
const DefaultHistoryWindow = 6

// HistoryBuilder turns a session's messages into the list sent to the relay.
type HistoryBuilder struct {
	// Window caps the number of conversation messages; 0 means DefaultHistoryWindow.
	Window int

	// TokenBudget drops the oldest messages until the estimate fits.
	// 0 disables the check. Requires Tokenizer.
	TokenBudget int
	Tokenizer   tokenizer.Tokenizer
}

// Build returns the system prompt followed by the last Window messages that are
// neither system entries nor error bubbles. The newest message is always kept.
func (b HistoryBuilder) Build(messages []Message, systemPrompt, model string) []types.Message {
	window := b.Window
	if window <= 0 {
		window = DefaultHistoryWindow
	}

	eligible := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Error || m.Role == types.RoleSystem {
			continue
		}
		eligible = append(eligible, m)
	}
	if len(eligible) > window {
		eligible = eligible[len(eligible)-window:]
	}

	history := make([]types.Message, 0, len(eligible))
	for _, m := range eligible {
		history = append(history, toWire(m))
	}

	history = b.trim(history, systemPrompt, model)

	out := make([]types.Message, 0, len(history)+1)
	if systemPrompt != "" {
		out = append(out, types.NewTextMessage(types.RoleSystem, systemPrompt))
	}
	return append(out, history...)
}

// trim drops leading messages while the estimate exceeds the budget.
// Counting failures leave the history untouched.
func (b HistoryBuilder) trim(history []types.Message, systemPrompt, model string) []types.Message {
	if b.TokenBudget <= 0 || b.Tokenizer == nil {
		return history
	}

	var promptTokens int
	if systemPrompt != "" {
		n, err := b.Tokenizer.CountMessages([]types.Message{types.NewTextMessage(types.RoleSystem, systemPrompt)}, model)
		if err != nil {
			return history
		}
		promptTokens = n
	}

	for len(history) > 1 {
		n, err := b.Tokenizer.CountMessages(history, model)
		if err != nil || promptTokens+n <= b.TokenBudget {
			break
		}
		history = history[1:]
	}
	return history
}

// toWire maps a session message to the relay format. Anything that is not a
// user turn is sent as assistant.
func toWire(m Message) types.Message {
	role := types.RoleAssistant
	if m.Role == types.RoleUser {
		role = types.RoleUser
	}

	att := m.Attachment
	switch {
	case att == nil:
		return types.NewTextMessage(role, m.Text)
	case att.IsImage():
		return types.NewAttachmentMessage(role, m.Text, att.DataURL())
	case att.IsText():
		return types.NewTextMessage(role, joinText(m.Text, fmt.Sprintf("File %s:\n%s", att.Name, att.Data)))
	default:
		return types.NewTextMessage(role, joinText(m.Text, fmt.Sprintf("[attached file %s (%s)]", att.Name, att.MIMEType)))
	}
}

func joinText(text, extra string) string {
	if text == "" {
		return extra
	}
	return text + "\n\n" + extra
}
