package tokenizer

import "github.com/mandalnilabja/chatrelay/internal/types"

const (
	// messageOverhead approximates the role/separator tokens around each message
	messageOverhead = 3

	// replyPrimingTokens covers the assistant reply start
	replyPrimingTokens = 3

	// attachmentTokens is a flat estimate per attached file
	attachmentTokens = 85
)

// CountMessages counts tokens for a slice of messages.
func (t *TiktokenTokenizer) CountMessages(messages []types.Message, model string) (int, error) {
	total := 0

	for _, msg := range messages {
		tokens, err := t.countMessage(msg, model)
		if err != nil {
			return 0, err
		}
		total += tokens + messageOverhead
	}

	return total + replyPrimingTokens, nil
}

// countMessage counts role and content tokens for a single message.
func (t *TiktokenTokenizer) countMessage(msg types.Message, model string) (int, error) {
	roleTokens, err := t.CountTokens(msg.Role, model)
	if err != nil {
		return 0, err
	}

	textTokens, err := t.CountTokens(msg.Content.String(), model)
	if err != nil {
		return 0, err
	}

	total := roleTokens + textTokens
	for _, part := range msg.Content.Parts {
		if part.Type == types.ContentTypeImageURL {
			total += attachmentTokens
		}
	}
	return total, nil
}
