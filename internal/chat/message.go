// Package chat holds the client side of a relay conversation: in-memory sessions,
// history building and the HTTP client that sends one turn at a time.
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Message is one rendered entry of a session. It is never modified after Append.
type Message struct {
	ID         string
	Role       string
	Text       string
	Timestamp  time.Time
	Attachment *Attachment
	// Error marks an inline error bubble; it is shown but never sent upstream.
	Error bool
}

// NewUserMessage creates a user turn with an optional attachment.
func NewUserMessage(text string, att *Attachment) Message {
	return newMessage(types.RoleUser, text, att, false)
}

// NewAssistantMessage creates an assistant reply.
func NewAssistantMessage(text string) Message {
	return newMessage(types.RoleAssistant, text, nil, false)
}

// NewErrorMessage creates an error bubble shown in place of a reply.
func NewErrorMessage(reason string) Message {
	return newMessage(types.RoleAssistant, errorBubblePrefix+reason, nil, true)
}

const errorBubblePrefix = "Sorry, something went wrong: "

func newMessage(role, text string, att *Attachment, isErr bool) Message {
	return Message{
		ID:         uuid.NewString(),
		Role:       role,
		Text:       text,
		Timestamp:  time.Now(),
		Attachment: att,
		Error:      isErr,
	}
}
