package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

const (
	// DefaultTitle names a session until its first user message arrives.
	DefaultTitle = "New chat"

	// Greeting seeds every new session so no session is ever empty.
	Greeting = "Hello! I'm your AI assistant. How can I help you today?"

	titleMaxRunes = 30
)

// Session is one independent conversation. Values returned by Store are
// snapshots; mutate sessions only through the Store.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Model     string
	Messages  []Message

	titled bool
	busy   bool
}

func newSession(model string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		CreatedAt: time.Now(),
		Model:     model,
		Messages:  []Message{NewAssistantMessage(Greeting)},
	}
}

// append adds msg and derives the title from the first user message.
func (s *Session) append(msg Message) {
	s.Messages = append(s.Messages, msg)
	if s.titled || msg.Role != types.RoleUser {
		return
	}
	if title := deriveTitle(msg); title != "" {
		s.Title = title
		s.titled = true
	}
}

// snapshot copies the session so callers can read it without holding the lock.
func (s *Session) snapshot() Session {
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return c
}

// Busy reports whether a request for this session was in flight at snapshot time.
func (s Session) Busy() bool {
	return s.busy
}

func deriveTitle(msg Message) string {
	if msg.Text != "" {
		runes := []rune(msg.Text)
		if len(runes) > titleMaxRunes {
			runes = runes[:titleMaxRunes]
		}
		return string(runes)
	}
	if msg.Attachment != nil {
		return msg.Attachment.Name
	}
	return ""
}
