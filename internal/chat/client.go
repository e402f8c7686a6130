package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// fallbackError is shown when the relay fails without a readable {error} body.
const fallbackError = "API request failed"

// maxReplyBytes bounds how much of a relay response is read.
const maxReplyBytes = 8 << 20

// RelayError is a failed relay call, carrying the text to render.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return e.Message
}

// Client sends turns of the store's sessions to the relay, one request per
// session at a time.
type Client struct {
	relayURL   string
	store      *Store
	prefs      *Preferences
	httpClient *http.Client
	logger     *slog.Logger

	History HistoryBuilder
}

// NewClient creates a client for the relay chat endpoint at relayURL.
// prefs may be nil to use the default system prompt.
func NewClient(relayURL string, store *Store, prefs *Preferences, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		relayURL:   relayURL,
		store:      store,
		prefs:      prefs,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Send appends a user turn to the current session, relays it and appends the
// reply or an error bubble to the same session, even if another session became
// current meanwhile. It returns the appended reply and true, or false when
// there was nothing to send or the session already has a request in flight.
func (c *Client) Send(ctx context.Context, text string, att *Attachment) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" && att == nil {
		return Message{}, false
	}

	sessionID := c.store.Current().ID
	sess, ok, err := c.store.begin(sessionID, NewUserMessage(text, att))
	if err != nil || !ok {
		return Message{}, false
	}

	history := c.History.Build(sess.Messages, c.prefs.SystemPrompt(), sess.Model)
	reply, err := c.Relay(ctx, history, sess.Model)

	var msg Message
	if err != nil {
		c.logger.Warn("chat turn failed", "session", sessionID, "model", sess.Model, "error", err)
		msg = NewErrorMessage(err.Error())
	} else {
		msg = NewAssistantMessage(reply)
	}
	c.store.finish(sessionID, msg)
	return msg, true
}

// Relay performs one POST to the relay and returns the reply text.
// Failures are *RelayError values with the message to render.
func (c *Client) Relay(ctx context.Context, messages []types.Message, model string) (string, error) {
	body, err := json.Marshal(types.ChatRequest{Messages: messages, Model: model})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RelayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", &RelayError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp types.ErrorResponse
		if json.Unmarshal(respBody, &errResp) != nil || errResp.Error == "" {
			errResp.Error = fallbackError
		}
		return "", &RelayError{Status: resp.StatusCode, Message: errResp.Error}
	}

	var chatResp types.ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &RelayError{Status: resp.StatusCode, Message: "invalid response from relay"}
	}

	c.logger.Debug("chat turn relayed", "model", model, "messages", len(messages), "reply_chars", len(chatResp.Message))
	return chatResp.Message, nil
}
