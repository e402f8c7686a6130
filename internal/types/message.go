// Package types provides the wire types shared by the relay handler, the upstream
// providers and the chat client.
package types

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Role constants for message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-annotated turn of a conversation.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content represents message content that can be a string or array of parts.
type Content struct {
	Text  string        // Simple string content
	Parts []ContentPart // Multimodal content parts (attachments)
}

// MarshalJSON outputs a string if Parts is empty, an array otherwise.
func (c Content) MarshalJSON() ([]byte, error) {
	if len(c.Parts) > 0 {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts a string, an array of parts or null. Any other JSON
// type is rejected rather than forwarded as empty text.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	c.Text = ""
	c.Parts = nil

	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		return json.Unmarshal(trimmed, &c.Text)
	case len(trimmed) > 0 && trimmed[0] == '[':
		return json.Unmarshal(trimmed, &c.Parts)
	default:
		return errInvalidContent
	}
}

var errInvalidContent = errors.New("content must be a string, an array of parts or null")

// String returns the text content, concatenating text parts if multimodal.
func (c Content) String() string {
	if c.Text != "" {
		return c.Text
	}
	var result string
	for _, part := range c.Parts {
		if part.Type == ContentTypeText {
			result += part.Text
		}
	}
	return result
}

// ContentPart represents a single part of multimodal content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// Content type constants
const (
	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
)

// ImageURL references an image, usually a data URL built from a file attachment.
type ImageURL struct {
	URL string `json:"url"`
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role, content string) Message {
	return Message{
		Role:    role,
		Content: Content{Text: content},
	}
}

// NewAttachmentMessage creates a message carrying text and a data URL.
func NewAttachmentMessage(role, text, dataURL string) Message {
	parts := make([]ContentPart, 0, 2)
	if text != "" {
		parts = append(parts, ContentPart{Type: ContentTypeText, Text: text})
	}
	parts = append(parts, ContentPart{Type: ContentTypeImageURL, ImageURL: &ImageURL{URL: dataURL}})
	return Message{
		Role:    role,
		Content: Content{Parts: parts},
	}
}
